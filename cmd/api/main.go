package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/LucasNeuro/fta-form-sub000/internal/config"
	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/email"
	"github.com/LucasNeuro/fta-form-sub000/internal/handler"
	"github.com/LucasNeuro/fta-form-sub000/internal/middleware"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository/postgres"
	"github.com/LucasNeuro/fta-form-sub000/internal/router"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/access"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/auth"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/billing"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/link"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/operator"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/plan"
	"github.com/LucasNeuro/fta-form-sub000/internal/service/team"
	"github.com/LucasNeuro/fta-form-sub000/internal/session"
	"github.com/LucasNeuro/fta-form-sub000/internal/worker"
	"github.com/LucasNeuro/fta-form-sub000/pkg/logger"
	"github.com/LucasNeuro/fta-form-sub000/pkg/validator"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	validator.Register()

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)
	annotationRepo := postgres.NewAnnotationRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	accessLinkRepo := postgres.NewAccessLinkRepository(db)
	registrationLinkRepo := postgres.NewRegistrationLinkRepository(db)

	// Infrastructure.
	sessions := session.NewRedisStore(redisClient)
	coraClient := cora.New(cora.Config{
		RelayURL: cfg.Cora.RelayURL,
		ClientID: cfg.Cora.ClientID,
		Env:      cfg.Cora.Env,
		Timeout:  time.Duration(cfg.Cora.TimeoutSeconds) * time.Second,
	}, log)

	var mailer email.Mailer = email.Nop{}
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPMailer(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	}

	// Services.
	authService := auth.NewService(userRepo, sessions, cfg.JWT, log)
	teamService := team.NewService(teamRepo, planRepo, log)
	planService := plan.NewService(planRepo, log)
	operatorService := operator.NewService(operatorRepo, annotationRepo, teamRepo, log)
	linkService := link.NewService(accessLinkRepo, registrationLinkRepo, teamService, log)
	billingService := billing.NewService(invoiceRepo, teamRepo, planRepo, coraClient, mailer, log)
	accessService := access.NewService(accessLinkRepo, invoiceRepo, teamRepo, operatorRepo, annotationRepo, log)

	// HTTP layer.
	authMw := middleware.NewAuthMiddleware(authService)
	r := router.NewRouter(
		authMw,
		handler.NewHealthHandler(db),
		handler.NewAuthHandler(authService),
		handler.NewAccessHandler(accessService),
		handler.NewLinkHandler(linkService),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
			Log:            log,
		},
		handler.NewTeamHandler(teamService),
		handler.NewPlanHandler(planService),
		handler.NewOperatorHandler(operatorService),
		handler.NewBillingHandler(billingService),
	)
	r.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Reconcile.Enabled {
		w := worker.NewReconcileWorker(billingService, cfg.Reconcile.Interval(), log)
		go w.Start(ctx)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("api server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
