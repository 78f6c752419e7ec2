package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/LucasNeuro/fta-form-sub000/internal/config"
	"github.com/LucasNeuro/fta-form-sub000/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL")})

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|version>")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize migrations")
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Warn().AnErr("source", sourceErr).AnErr("db", dbErr).Msg("failed to close migration resources")
		}
	}()

	switch os.Args[1] {
	case "up":
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("database already up to date")
			return
		}
		if err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("migrations applied")

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Fatal().Err(err).Msg("rollback failed")
		}
		log.Info().Msg("rolled back one migration")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: migrate <up|down|version>\n", os.Args[1])
		os.Exit(1)
	}
}
