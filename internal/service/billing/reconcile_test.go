package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
)

func paidInvoice(teamID uuid.UUID, paidAt time.Time) *model.Invoice {
	id := "prov_" + uuid.NewString()[:8]
	return &model.Invoice{
		EquipeID:      teamID,
		CoraInvoiceID: &id,
		Valor:         150,
		Status:        model.InvoiceStatusPago,
		DataPagamento: &paidAt,
	}
}

func pendingInvoice(teamID uuid.UUID, providerID string) *model.Invoice {
	return &model.Invoice{
		EquipeID:      teamID,
		CoraInvoiceID: &providerID,
		Valor:         150,
		Status:        model.InvoiceStatusPendente,
	}
}

func TestReconcileExpiresStalePayments(t *testing.T) {
	team := &model.Team{ID: uuid.New(), Nome: "Time Alfa", Email: "alfa@example.com"}
	invoices := newFakeInvoiceRepo()
	teams := newFakeTeamRepo(team)

	stale := invoices.add(paidInvoice(team.ID, time.Now().AddDate(0, 0, -(ValidityDays+5))))
	fresh := invoices.add(paidInvoice(team.ID, time.Now().AddDate(0, 0, -3)))

	svc := newTestService(invoices, teams, newFakePlanRepo(), newFakeProvider(), &fakeMailer{})
	summary, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.Errors)

	got, _ := invoices.Get(context.Background(), stale.ID)
	assert.Equal(t, model.InvoiceStatusPendente, got.Status)
	// Expiry keeps the payment history.
	assert.NotNil(t, got.DataPagamento)

	got, _ = invoices.Get(context.Background(), fresh.ID)
	assert.Equal(t, model.InvoiceStatusPago, got.Status)
}

func TestReconcileSyncsProviderStatuses(t *testing.T) {
	team := &model.Team{ID: uuid.New(), Nome: "Time Beta", Email: "beta@example.com"}
	invoices := newFakeInvoiceRepo()
	teams := newFakeTeamRepo(team)
	provider := newFakeProvider()
	mailer := &fakeMailer{}

	paid := invoices.add(pendingInvoice(team.ID, "prov_paid"))
	late := invoices.add(pendingInvoice(team.ID, "prov_late"))
	cancelled := invoices.add(pendingInvoice(team.ID, "prov_cancelled"))
	open := invoices.add(pendingInvoice(team.ID, "prov_open"))

	provider.invoices["prov_paid"] = &cora.Invoice{ID: "prov_paid", Status: cora.StatusPaid, OccurrenceDate: "2025-03-10"}
	provider.invoices["prov_late"] = &cora.Invoice{ID: "prov_late", Status: cora.StatusLate}
	provider.invoices["prov_cancelled"] = &cora.Invoice{ID: "prov_cancelled", Status: cora.StatusCancelled}
	provider.invoices["prov_open"] = &cora.Invoice{ID: "prov_open", Status: cora.StatusOpen}

	svc := newTestService(invoices, teams, newFakePlanRepo(), provider, mailer)
	summary, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 0, summary.Errors)

	got, _ := invoices.Get(context.Background(), paid.ID)
	assert.Equal(t, model.InvoiceStatusPago, got.Status)
	require.NotNil(t, got.DataPagamento)
	assert.Equal(t, "2025-03-10", got.DataPagamento.Format("2006-01-02"))

	got, _ = invoices.Get(context.Background(), late.ID)
	assert.Equal(t, model.InvoiceStatusVencido, got.Status)

	got, _ = invoices.Get(context.Background(), cancelled.ID)
	assert.Equal(t, model.InvoiceStatusCancelado, got.Status)

	got, _ = invoices.Get(context.Background(), open.ID)
	assert.Equal(t, model.InvoiceStatusPendente, got.Status)

	// The newly paid invoice triggers the confirmation email and the legacy
	// team columns.
	assert.Equal(t, []string{"beta@example.com"}, mailer.confirmations)
	gotTeam, _ := teams.Get(context.Background(), team.ID)
	assert.True(t, gotTeam.PagamentoEfetuado)
}

func TestReconcileIsolatesFailures(t *testing.T) {
	team := &model.Team{ID: uuid.New(), Nome: "Time Gama", Email: "gama@example.com"}
	invoices := newFakeInvoiceRepo()
	teams := newFakeTeamRepo(team)
	provider := newFakeProvider()

	invoices.add(pendingInvoice(team.ID, "prov_broken"))
	ok := invoices.add(pendingInvoice(team.ID, "prov_ok"))

	provider.errs["prov_broken"] = &cora.Error{Kind: cora.KindProvider, Status: 500, Message: "upstream blew up"}
	provider.invoices["prov_ok"] = &cora.Invoice{ID: "prov_ok", Status: cora.StatusLate}

	svc := newTestService(invoices, teams, newFakePlanRepo(), provider, &fakeMailer{})
	summary, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Errors)

	got, _ := invoices.Get(context.Background(), ok.ID)
	assert.Equal(t, model.InvoiceStatusVencido, got.Status)
}

func TestReconcileIgnoresProviderNotFound(t *testing.T) {
	team := &model.Team{ID: uuid.New(), Nome: "Time Delta"}
	invoices := newFakeInvoiceRepo()

	// The fake provider 404s any unknown id.
	invoices.add(pendingInvoice(team.ID, "prov_gone"))

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), newFakeProvider(), &fakeMailer{})
	summary, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 0, summary.Errors)
}

func TestReconcileRefusesConcurrentRun(t *testing.T) {
	svc := newTestService(newFakeInvoiceRepo(), newFakeTeamRepo(), newFakePlanRepo(), newFakeProvider(), &fakeMailer{})

	svc.recMu.Lock()
	defer svc.recMu.Unlock()

	_, err := svc.Reconcile(context.Background())
	assert.ErrorIs(t, err, ErrReconcileRunning)
}

func TestReconcileExpiryRunsBeforeSync(t *testing.T) {
	// An invoice expired in phase 1 becomes pendente and, still holding a
	// provider reference, would be a phase-2 candidate on the NEXT run; in
	// this run phase 2 works from the listing taken after expiry, so a PAID
	// answer from the provider immediately re-validates it.
	team := &model.Team{ID: uuid.New(), Nome: "Time Épsilon", Email: "eps@example.com"}
	invoices := newFakeInvoiceRepo()
	provider := newFakeProvider()

	stale := invoices.add(paidInvoice(team.ID, time.Now().AddDate(0, 0, -(ValidityDays+10))))
	provider.invoices[*stale.CoraInvoiceID] = &cora.Invoice{
		ID:             *stale.CoraInvoiceID,
		Status:         cora.StatusPaid,
		OccurrenceDate: time.Now().Format("2006-01-02"),
	}

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), provider, &fakeMailer{})
	summary, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 1, summary.Updated)

	got, _ := invoices.Get(context.Background(), stale.ID)
	assert.Equal(t, model.InvoiceStatusPago, got.Status)
	assert.True(t, IsPaymentValid(*got.DataPagamento, time.Now()))
}

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		provider string
		local    model.InvoiceStatus
		ok       bool
	}{
		{cora.StatusPaid, model.InvoiceStatusPago, true},
		{cora.StatusLate, model.InvoiceStatusVencido, true},
		{cora.StatusCancelled, model.InvoiceStatusCancelado, true},
		{cora.StatusOpen, "", false},
		{cora.StatusInPayment, "", false},
	}

	for _, tt := range tests {
		got, ok := MapProviderStatus(tt.provider)
		assert.Equal(t, tt.ok, ok, tt.provider)
		assert.Equal(t, tt.local, got, tt.provider)
	}
}
