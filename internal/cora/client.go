package cora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Config configures the provider client. All calls go through the TLS relay,
// which holds the client certificate.
type Config struct {
	RelayURL string
	ClientID string
	Env      string // "stage" or "production"
	Timeout  time.Duration
}

// Client talks to the Cora invoicing API via the relay. Access tokens are
// cached until shortly before their reported expiry and refreshed lazily.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *cache.Cache
	log    zerolog.Logger
}

// tokenSafety is shaved off expires_in so a token is never used at the edge
// of its lifetime.
const tokenSafety = 60 * time.Second

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: cache.New(cache.NoExpiration, 5*time.Minute),
		log:    log.With().Str("component", "cora").Logger(),
	}
}

// Token returns a bearer token, reusing the cached one while it is still
// comfortably within its lifetime.
func (c *Client) Token(ctx context.Context) (*Token, error) {
	key := "token:" + c.cfg.Env
	if v, ok := c.tokens.Get(key); ok {
		return v.(*Token), nil
	}

	body := map[string]string{"clientId": c.cfg.ClientID, "env": c.cfg.Env}
	var tok Token
	if err := c.do(ctx, http.MethodPost, "/provider/token", body, "", &tok); err != nil {
		return nil, err
	}

	if ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenSafety; ttl > 0 {
		c.tokens.Set(key, &tok, ttl)
	}
	return &tok, nil
}

// CreateInvoice issues a boleto/Pix charge. A fresh idempotency key is
// attached per attempt so a relay-side retry cannot double-charge. The payload
// is validated locally first; a malformed document never reaches the provider.
func (c *Client) CreateInvoice(ctx context.Context, req InvoiceRequest) (*Invoice, error) {
	payload, err := BuildPayload(req, time.Now())
	if err != nil {
		return nil, err
	}

	tok, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"accessToken":    tok.AccessToken,
		"invoiceData":    payload,
		"env":            c.cfg.Env,
		"idempotencyKey": uuid.NewString(),
	}

	var inv Invoice
	if err := c.do(ctx, http.MethodPost, "/provider/invoices", body, "", &inv); err != nil {
		if IsAuth(err) {
			c.tokens.Delete("token:" + c.cfg.Env)
		}
		return nil, err
	}

	c.log.Info().Str("invoice_id", inv.ID).Str("code", payload.Code).Msg("invoice created")
	return &inv, nil
}

// GetInvoice fetches the provider-side status of an accepted charge.
func (c *Client) GetInvoice(ctx context.Context, providerID string) (*Invoice, error) {
	tok, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/provider/invoices/%s?env=%s", providerID, c.cfg.Env)
	var inv Invoice
	if err := c.do(ctx, http.MethodGet, path, nil, tok.AccessToken, &inv); err != nil {
		if IsAuth(err) {
			c.tokens.Delete("token:" + c.cfg.Env)
		}
		return nil, err
	}
	return &inv, nil
}

// CancelInvoice requests provider-side cancellation. Cancelling an invoice
// the provider no longer knows about is treated as already done.
func (c *Client) CancelInvoice(ctx context.Context, providerID string) error {
	tok, err := c.Token(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/provider/invoices/%s?env=%s", providerID, c.cfg.Env)
	err = c.do(ctx, http.MethodDelete, path, nil, tok.AccessToken, nil)
	if err != nil && !IsNotFound(err) {
		if IsAuth(err) {
			c.tokens.Delete("token:" + c.cfg.Env)
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, bearer string, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cora: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.RelayURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("cora: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportErr(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(err)
	}

	var env relayEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return fmt.Errorf("cora: decode response: %w", err)
		}
		return errorFromStatus(resp.StatusCode, string(raw), nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromStatus(resp.StatusCode, env.Error, env.Details)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("cora: decode response data: %w", err)
		}
	}
	return nil
}
