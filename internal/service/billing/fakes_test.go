package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LucasNeuro/fta-form-sub000/internal/cora"
	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

// fakeInvoiceRepo is an in-memory InvoiceRepository mirroring the terminal
// cancelado rule of the real one.
type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*model.Invoice

	failUpdate map[uuid.UUID]error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:   make(map[uuid.UUID]*model.Invoice),
		failUpdate: make(map[uuid.UUID]error),
	}
}

func (f *fakeInvoiceRepo) add(inv *model.Invoice) *model.Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	f.invoices[inv.ID] = inv
	return inv
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *model.Invoice) error {
	f.add(inv)
	return nil
}

func (f *fakeInvoiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, _ *model.InvoiceFilters) ([]*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Invoice
	for _, inv := range f.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListPaid(_ context.Context) ([]*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Invoice
	for _, inv := range f.invoices {
		if inv.Status == model.InvoiceStatusPago && inv.DataPagamento != nil {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListForSync(_ context.Context) ([]*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Invoice
	for _, inv := range f.invoices {
		if (inv.Status == model.InvoiceStatusPendente || inv.Status == model.InvoiceStatusVencido) &&
			inv.CoraInvoiceID != nil {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) LatestPaid(_ context.Context, teamID uuid.UUID) (*model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.Invoice
	for _, inv := range f.invoices {
		if inv.EquipeID != teamID || inv.Status != model.InvoiceStatusPago || inv.DataPagamento == nil {
			continue
		}
		if latest == nil || inv.DataPagamento.After(*latest.DataPagamento) {
			latest = inv
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeInvoiceRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.InvoiceStatus, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpdate[id]; ok {
		return err
	}
	inv, ok := f.invoices[id]
	if !ok {
		return repository.ErrNotFound
	}
	if inv.Status == model.InvoiceStatusCancelado {
		return repository.ErrTerminalStatus
	}
	inv.Status = status
	if paidAt != nil {
		inv.DataPagamento = paidAt
	}
	return nil
}

func (f *fakeInvoiceRepo) Totals(_ context.Context) (*model.BillingTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := &model.BillingTotals{}
	for _, inv := range f.invoices {
		switch inv.Status {
		case model.InvoiceStatusPago:
			totals.Arrecadado += inv.Valor
		case model.InvoiceStatusPendente:
			totals.Pendente += inv.Valor
		}
		if inv.Status != model.InvoiceStatusCancelado {
			totals.Previsto += inv.Valor
		}
	}
	return totals, nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[uuid.UUID]*model.Team
}

func newFakeTeamRepo(teams ...*model.Team) *fakeTeamRepo {
	f := &fakeTeamRepo{teams: make(map[uuid.UUID]*model.Team)}
	for _, t := range teams {
		f.teams[t.ID] = t
	}
	return f
}

func (f *fakeTeamRepo) Create(_ context.Context, team *model.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) Get(_ context.Context, id uuid.UUID) (*model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeamRepo) Update(_ context.Context, team *model.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[team.ID]; !ok {
		return repository.ErrNotFound
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.teams[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamRepo) List(_ context.Context) ([]*model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Team
	for _, t := range f.teams {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeTeamRepo) SetBilling(_ context.Context, id uuid.UUID, valorCobrado float64, pagamentoEfetuado bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.ValorCobrado = valorCobrado
	t.PagamentoEfetuado = pagamentoEfetuado
	return nil
}

type fakePlanRepo struct {
	plans map[uuid.UUID]*model.Plan
}

func newFakePlanRepo(plans ...*model.Plan) *fakePlanRepo {
	f := &fakePlanRepo{plans: make(map[uuid.UUID]*model.Plan)}
	for _, p := range plans {
		f.plans[p.ID] = p
	}
	return f
}

func (f *fakePlanRepo) Create(_ context.Context, plan *model.Plan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakePlanRepo) Get(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePlanRepo) Update(_ context.Context, plan *model.Plan) error {
	f.plans[plan.ID] = plan
	return nil
}

func (f *fakePlanRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.plans, id)
	return nil
}

func (f *fakePlanRepo) List(_ context.Context) ([]*model.Plan, error) {
	var out []*model.Plan
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

// fakeProvider scripts per-invoice provider responses.
type fakeProvider struct {
	mu       sync.Mutex
	invoices map[string]*cora.Invoice
	errs     map[string]error

	createResult *cora.Invoice
	createErr    error
	cancelErr    error

	createCalls int
	getCalls    int
	cancelCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		invoices: make(map[string]*cora.Invoice),
		errs:     make(map[string]error),
	}
}

func (f *fakeProvider) CreateInvoice(_ context.Context, _ cora.InvoiceRequest) (*cora.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &cora.Invoice{ID: "inv_" + uuid.NewString()[:8], Status: cora.StatusOpen}, nil
}

func (f *fakeProvider) GetInvoice(_ context.Context, providerID string) (*cora.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if err, ok := f.errs[providerID]; ok {
		return nil, err
	}
	inv, ok := f.invoices[providerID]
	if !ok {
		return nil, &cora.Error{Kind: cora.KindNotFound, Status: 404, Message: "not found"}
	}
	return inv, nil
}

func (f *fakeProvider) CancelInvoice(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return f.cancelErr
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations []string
	err           error
}

func (f *fakeMailer) SendPaymentConfirmation(_ context.Context, to, _ string, _ float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmations = append(f.confirmations, to)
	return nil
}

func (f *fakeMailer) SendInvoiceCreated(_ context.Context, _, _ string, _ float64, _ time.Time, _ string) error {
	return nil
}

var errBoom = errors.New("boom")

func newTestService(invoices *fakeInvoiceRepo, teams *fakeTeamRepo, plans *fakePlanRepo, provider *fakeProvider, mailer *fakeMailer) *Service {
	return NewService(invoices, teams, plans, provider, mailer, zerolog.Nop())
}
