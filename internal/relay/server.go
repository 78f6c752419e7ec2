package relay

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server exposes the relay HTTP surface consumed by the provider client.
type Server struct {
	fwd *Forwarder
	cfg *Config
	log zerolog.Logger
}

func NewServer(cfg *Config, fwd *Forwarder, log zerolog.Logger) *Server {
	return &Server{fwd: fwd, cfg: cfg, log: log.With().Str("component", "relay").Logger()}
}

// Engine builds the gin engine. The relay is deliberately minimal: CORS for
// one origin, four routes, and a health probe.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.cors())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "healthy"}})
	})

	engine.POST("/provider/token", s.token)
	engine.POST("/provider/invoices", s.createInvoice)
	engine.GET("/provider/invoices/:id", s.getInvoice)
	engine.DELETE("/provider/invoices/:id", s.cancelInvoice)

	return engine
}

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type tokenRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	Env      string `json:"env"`
}

func (s *Server) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", req.ClientID)

	res, err := s.fwd.Forward(c.Request.Context(), req.Env, http.MethodPost, "/token",
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		strings.NewReader(form.Encode()))
	if err != nil {
		s.upstreamFailure(c, err)
		return
	}
	s.respond(c, res)
}

type createInvoiceRequest struct {
	AccessToken    string          `json:"accessToken" binding:"required"`
	InvoiceData    json.RawMessage `json:"invoiceData" binding:"required"`
	Env            string          `json:"env"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
}

func (s *Server) createInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	headers := map[string]string{
		"Content-Type":    "application/json",
		"Authorization":   "Bearer " + req.AccessToken,
		"Idempotency-Key": req.IdempotencyKey,
	}
	res, err := s.fwd.Forward(c.Request.Context(), req.Env, http.MethodPost, "/v2/invoices",
		headers, strings.NewReader(string(req.InvoiceData)))
	if err != nil {
		s.upstreamFailure(c, err)
		return
	}
	s.respond(c, res)
}

func (s *Server) getInvoice(c *gin.Context) {
	res, err := s.fwd.Forward(c.Request.Context(), c.Query("env"), http.MethodGet,
		"/v2/invoices/"+c.Param("id"),
		map[string]string{"Authorization": c.GetHeader("Authorization")}, nil)
	if err != nil {
		s.upstreamFailure(c, err)
		return
	}
	s.respond(c, res)
}

func (s *Server) cancelInvoice(c *gin.Context) {
	res, err := s.fwd.Forward(c.Request.Context(), c.Query("env"), http.MethodDelete,
		"/v2/invoices/"+c.Param("id"),
		map[string]string{"Authorization": c.GetHeader("Authorization")}, nil)
	if err != nil {
		s.upstreamFailure(c, err)
		return
	}
	s.respond(c, res)
}

// respond passes the provider's status through, wrapping the body so callers
// can rely on the envelope shape. Provider errors keep their raw body in
// details for diagnosis.
func (s *Server) respond(c *gin.Context, res *Result) {
	if res.OK() {
		c.JSON(res.Status, gin.H{"success": true, "data": res.Body})
		return
	}

	s.log.Warn().Int("status", res.Status).RawJSON("body", res.Body).Msg("provider rejected request")
	c.JSON(res.Status, gin.H{
		"success": false,
		"error":   providerMessage(res),
		"details": res.Body,
	})
}

func (s *Server) upstreamFailure(c *gin.Context, err error) {
	s.log.Error().Err(err).Msg("failed to reach provider")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reach payment provider"})
}

// providerMessage pulls a human-readable message out of the provider body
// when it has one.
func providerMessage(res *Result) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(res.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(res.Status)
}
