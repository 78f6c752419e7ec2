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
	apperrors "github.com/LucasNeuro/fta-form-sub000/pkg/errors"
)

func testTeam() *model.Team {
	return &model.Team{
		ID:        uuid.New(),
		Nome:      "Time Teste",
		Capitao:   "Maria Silva",
		Email:     "time@example.com",
		Documento: "52998224725",
		Cidade:    "São Paulo",
		Estado:    "SP",
	}
}

func createRequest(teamID uuid.UUID) *model.CreateInvoiceRequest {
	return &model.CreateInvoiceRequest{
		EquipeID:   teamID.String(),
		Valor:      250.50,
		Vencimento: "2025-12-01",
		Tipo:       "unico",
		FormaPag:   "boleto",
	}
}

func TestCreateInvoicePersistsAfterProviderAccepts(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	teams := newFakeTeamRepo(team)
	provider := newFakeProvider()
	provider.createResult = &cora.Invoice{ID: "prov_123", Status: cora.StatusOpen, PDFURL: "https://cora/pdf"}

	svc := newTestService(invoices, teams, newFakePlanRepo(), provider, &fakeMailer{})
	inv, err := svc.CreateInvoice(context.Background(), createRequest(team.ID), "admin@fta")
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPendente, inv.Status)
	require.NotNil(t, inv.CoraInvoiceID)
	assert.Equal(t, "prov_123", *inv.CoraInvoiceID)
	require.NotNil(t, inv.PdfURL)
	assert.Equal(t, "https://cora/pdf", *inv.PdfURL)

	stored, err := invoices.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.CoraInvoiceID, stored.CoraInvoiceID)
}

func TestCreateInvoiceLeavesNoRowOnProviderFailure(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	provider := newFakeProvider()
	provider.createErr = &cora.Error{Kind: cora.KindValidation, Status: 400, Message: "bad payload"}

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), provider, &fakeMailer{})
	_, err := svc.CreateInvoice(context.Background(), createRequest(team.ID), "admin@fta")
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)

	list, _ := invoices.List(context.Background(), nil)
	assert.Empty(t, list)
}

func TestCreateInvoiceHonorsImmediatePaid(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	teams := newFakeTeamRepo(team)
	provider := newFakeProvider()
	provider.createResult = &cora.Invoice{ID: "prov_pix", Status: cora.StatusPaid, OccurrenceDate: "2025-06-15"}

	req := createRequest(team.ID)
	req.FormaPag = "pix"

	svc := newTestService(invoices, teams, newFakePlanRepo(), provider, &fakeMailer{})
	inv, err := svc.CreateInvoice(context.Background(), req, "admin@fta")
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceStatusPago, inv.Status)
	require.NotNil(t, inv.DataPagamento)
	assert.Equal(t, "2025-06-15", inv.DataPagamento.Format("2006-01-02"))

	gotTeam, _ := teams.Get(context.Background(), team.ID)
	assert.True(t, gotTeam.PagamentoEfetuado)
}

func TestCreateInvoiceUsesPlanName(t *testing.T) {
	team := testTeam()
	plan := &model.Plan{ID: uuid.New(), Nome: "Plano Ouro", Valor: 300, Ativo: true}

	svc := newTestService(newFakeInvoiceRepo(), newFakeTeamRepo(team), newFakePlanRepo(plan), newFakeProvider(), &fakeMailer{})

	req := createRequest(team.ID)
	planID := plan.ID.String()
	req.PlanoID = &planID

	inv, err := svc.CreateInvoice(context.Background(), req, "admin@fta")
	require.NoError(t, err)
	require.NotNil(t, inv.PlanoID)
	assert.Equal(t, plan.ID, *inv.PlanoID)
}

func TestCreateInvoiceUnknownTeam(t *testing.T) {
	svc := newTestService(newFakeInvoiceRepo(), newFakeTeamRepo(), newFakePlanRepo(), newFakeProvider(), &fakeMailer{})

	_, err := svc.CreateInvoice(context.Background(), createRequest(uuid.New()), "admin@fta")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCancelInvoiceProviderFirst(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	provider := newFakeProvider()

	inv := invoices.add(pendingInvoice(team.ID, "prov_c1"))

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), provider, &fakeMailer{})
	require.NoError(t, svc.CancelInvoice(context.Background(), inv.ID))

	assert.Equal(t, 1, provider.cancelCalls)
	got, _ := invoices.Get(context.Background(), inv.ID)
	assert.Equal(t, model.InvoiceStatusCancelado, got.Status)
}

func TestCancelInvoiceKeepsRowWhenProviderFails(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	provider := newFakeProvider()
	provider.cancelErr = &cora.Error{Kind: cora.KindProvider, Status: 502, Message: "bad gateway"}

	inv := invoices.add(pendingInvoice(team.ID, "prov_c2"))

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), provider, &fakeMailer{})
	err := svc.CancelInvoice(context.Background(), inv.ID)
	require.Error(t, err)

	got, _ := invoices.Get(context.Background(), inv.ID)
	assert.Equal(t, model.InvoiceStatusPendente, got.Status)
}

func TestCancelInvoiceAlreadyCancelledIsNoop(t *testing.T) {
	team := testTeam()
	invoices := newFakeInvoiceRepo()
	provider := newFakeProvider()

	inv := pendingInvoice(team.ID, "prov_c3")
	inv.Status = model.InvoiceStatusCancelado
	invoices.add(inv)

	svc := newTestService(invoices, newFakeTeamRepo(team), newFakePlanRepo(), provider, &fakeMailer{})
	require.NoError(t, svc.CancelInvoice(context.Background(), inv.ID))
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestMapProviderError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		code apperrors.ErrorCode
	}{
		{"validation", &cora.Error{Kind: cora.KindValidation, Status: 400}, apperrors.ErrBadRequest},
		{"auth", &cora.Error{Kind: cora.KindAuth, Status: 401}, apperrors.ErrUnauthorized},
		{"not found", &cora.Error{Kind: cora.KindNotFound, Status: 404}, apperrors.ErrNotFound},
		{"transport", &cora.Error{Kind: cora.KindTransport, Err: errBoom}, apperrors.ErrUnavailable},
		{"other provider", &cora.Error{Kind: cora.KindProvider, Status: 500}, apperrors.ErrInternal},
		{"plain error", errBoom, apperrors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr, ok := apperrors.AsAppError(mapProviderError(tt.in))
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestParseOccurrence(t *testing.T) {
	fallback := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	got := parseOccurrence("2025-03-10T14:30:00Z", fallback)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.March, got.Month())

	got = parseOccurrence("2025-03-10", fallback)
	assert.Equal(t, 10, got.Day())

	assert.Equal(t, fallback, parseOccurrence("", fallback))
	assert.Equal(t, fallback, parseOccurrence("not-a-date", fallback))
}
