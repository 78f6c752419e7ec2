package relay

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRelayUnderTest wires the server against a fake provider upstream. The
// upstream is plain HTTP, so an empty client certificate is fine.
func newRelayUnderTest(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()
	provider := httptest.NewServer(upstream)
	t.Cleanup(provider.Close)

	cfg := &Config{
		AllowedOrigin:  "*",
		StageURL:       provider.URL,
		ProductionURL:  provider.URL,
		TimeoutSeconds: 5,
	}
	return NewServer(cfg, NewForwarder(cfg, tls.Certificate{}), zerolog.Nop()).Engine()
}

func doJSON(handler http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTokenForwardsClientCredentials(t *testing.T) {
	var gotForm string
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		gotForm = string(buf[:n])
		w.Write([]byte(`{"access_token":"tok-1","expires_in":3600}`))
	}))

	rec := doJSON(engine, http.MethodPost, "/provider/token", `{"clientId":"int-abc","env":"stage"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, gotForm, "grant_type=client_credentials")
	assert.Contains(t, gotForm, "client_id=int-abc")

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Contains(t, string(envelope.Data), "tok-1")
}

func TestCreateInvoiceForwardsHeaders(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/invoices", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"inv_1","status":"OPEN"}`))
	}))

	body := `{"accessToken":"tok-1","invoiceData":{"code":"UNI-1"},"env":"stage","idempotencyKey":"idem-1"}`
	rec := doJSON(engine, http.MethodPost, "/provider/invoices", body, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestProviderErrorPassesStatusAndDetailsThrough(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid due date","errors":[{"field":"due_date"}]}`))
	}))

	body := `{"accessToken":"tok-1","invoiceData":{},"env":"stage","idempotencyKey":"idem-1"}`
	rec := doJSON(engine, http.MethodPost, "/provider/invoices", body, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Success bool            `json:"success"`
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "invalid due date", envelope.Error)
	assert.Contains(t, string(envelope.Details), "due_date")
}

func TestGetInvoicePassesAuthorizationThrough(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/invoices/inv_42", r.URL.Path)
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"inv_42","status":"PAID"}`))
	}))

	rec := doJSON(engine, http.MethodGet, "/provider/invoices/inv_42?env=stage", "",
		map[string]string{"Authorization": "Bearer tok-9"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAID")
}

func TestNonJSONUpstreamBodyIsWrapped(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	rec := doJSON(engine, http.MethodGet, "/provider/invoices/inv_1?env=stage", "", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "bad gateway")
}

func TestMissingIdempotencyKeyRejected(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called")
	}))

	body := `{"accessToken":"tok-1","invoiceData":{},"env":"stage"}`
	rec := doJSON(engine, http.MethodPost, "/provider/invoices", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	engine := newRelayUnderTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := doJSON(engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
