package cora

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay mimics the relay's HTTP surface and envelope.
type fakeRelay struct {
	mu              sync.Mutex
	tokenCalls      int
	invoiceCalls    int
	idempotencyKeys []string

	invoiceStatus int
	invoiceBody   string
}

func (f *fakeRelay) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/provider/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.tokenCalls++
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"access_token":"tok-abc","expires_in":3600,"token_type":"Bearer"}}`))
	})

	mux.HandleFunc("/provider/invoices", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IdempotencyKey string `json:"idempotencyKey"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.invoiceCalls++
		f.idempotencyKeys = append(f.idempotencyKeys, body.IdempotencyKey)
		status, resp := f.invoiceStatus, f.invoiceBody
		f.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
			resp = `{"success":true,"data":{"id":"prov_1","status":"OPEN","total_amount":25050}}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(resp))
	})

	mux.HandleFunc("/provider/invoices/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"success":true,"data":{"id":"prov_1","status":"PAID","occurrence_date":"2025-03-10"}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":"invoice not found"}`))
		}
	})

	return mux
}

func newTestClient(t *testing.T, relay *fakeRelay) *Client {
	t.Helper()
	srv := httptest.NewServer(relay.handler())
	t.Cleanup(srv.Close)
	return New(Config{RelayURL: srv.URL, ClientID: "client-1", Env: "stage"}, zerolog.Nop())
}

func validRequest() InvoiceRequest {
	return InvoiceRequest{
		TeamID:   uuid.New(),
		Document: "52998224725",
		Amount:   250.50,
		DueDate:  time.Now().AddDate(0, 0, 10),
	}
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	relay := &fakeRelay{}
	client := newTestClient(t, relay)

	_, err := client.CreateInvoice(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = client.CreateInvoice(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, relay.tokenCalls)
	assert.Equal(t, 2, relay.invoiceCalls)
}

func TestIdempotencyKeyIsFreshPerAttempt(t *testing.T) {
	relay := &fakeRelay{}
	client := newTestClient(t, relay)

	_, err := client.CreateInvoice(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = client.CreateInvoice(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, relay.idempotencyKeys, 2)
	assert.NotEqual(t, relay.idempotencyKeys[0], relay.idempotencyKeys[1])
	for _, k := range relay.idempotencyKeys {
		_, err := uuid.Parse(k)
		assert.NoError(t, err)
	}
}

func TestCreateInvoiceValidationErrorCarriesDetails(t *testing.T) {
	relay := &fakeRelay{
		invoiceStatus: http.StatusBadRequest,
		invoiceBody:   `{"success":false,"error":"invalid due date","details":{"errors":[{"field":"payment_terms.due_date"}]}}`,
	}
	client := newTestClient(t, relay)

	_, err := client.CreateInvoice(context.Background(), validRequest())
	require.Error(t, err)
	require.True(t, IsValidation(err))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.Status)
	assert.Equal(t, "invalid due date", ce.Message)
	assert.Contains(t, string(ce.Details), "payment_terms.due_date")
}

func TestAuthErrorInvalidatesCachedToken(t *testing.T) {
	relay := &fakeRelay{
		invoiceStatus: http.StatusUnauthorized,
		invoiceBody:   `{"success":false,"error":"token expired"}`,
	}
	client := newTestClient(t, relay)

	_, err := client.CreateInvoice(context.Background(), validRequest())
	require.True(t, IsAuth(err))

	// The stale token was evicted, so the next attempt re-authenticates.
	_, _ = client.CreateInvoice(context.Background(), validRequest())
	assert.Equal(t, 2, relay.tokenCalls)
}

func TestCreateInvoiceMalformedDocumentNeverHitsProvider(t *testing.T) {
	relay := &fakeRelay{}
	client := newTestClient(t, relay)

	req := validRequest()
	req.Document = "123"

	_, err := client.CreateInvoice(context.Background(), req)
	require.True(t, IsValidation(err))
	assert.Equal(t, 0, relay.tokenCalls)
	assert.Equal(t, 0, relay.invoiceCalls)
}

func TestGetInvoice(t *testing.T) {
	client := newTestClient(t, &fakeRelay{})

	inv, err := client.GetInvoice(context.Background(), "prov_1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, inv.Status)
	assert.Equal(t, "2025-03-10", inv.OccurrenceDate)
}

func TestCancelInvoiceTreats404AsDone(t *testing.T) {
	client := newTestClient(t, &fakeRelay{})
	assert.NoError(t, client.CancelInvoice(context.Background(), "prov_gone"))
}

func TestTransportErrorKind(t *testing.T) {
	client := New(Config{RelayURL: "http://127.0.0.1:1", Env: "stage"}, zerolog.Nop())

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestErrorFromStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{400, KindValidation},
		{401, KindAuth},
		{404, KindNotFound},
		{422, KindProvider},
		{500, KindProvider},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, errorFromStatus(tt.status, "msg", nil).Kind, tt.status)
	}
}
