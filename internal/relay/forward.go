package relay

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Forwarder performs the actual mutually-authenticated HTTPS calls. It is a
// thin transport: no retries, no backoff, no business logic.
type Forwarder struct {
	client *http.Client
	cfg    *Config
}

func NewForwarder(cfg *Config, cert tls.Certificate) *Forwarder {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}
	return &Forwarder{
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		cfg: cfg,
	}
}

// Result is the upstream response, parsed as JSON when possible.
type Result struct {
	Status int
	Body   json.RawMessage
}

// OK reports whether the upstream answered with a 2xx.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Forward sends one request to the provider and returns whatever came back.
// A non-JSON body is wrapped so the caller always gets valid JSON.
func (f *Forwarder) Forward(ctx context.Context, env, method, path string, headers map[string]string, body io.Reader) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, f.cfg.BaseURL(env)+path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if !json.Valid(raw) {
		wrapped, _ := json.Marshal(map[string]string{"raw": string(raw)})
		raw = wrapped
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	return &Result{Status: resp.StatusCode, Body: raw}, nil
}
