package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
)

type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	}

	TeamRepository interface {
		Create(ctx context.Context, team *model.Team) error
		Get(ctx context.Context, id uuid.UUID) (*model.Team, error)
		Update(ctx context.Context, team *model.Team) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Team, error)
		// SetBilling updates the denormalized billing columns kept for
		// legacy reports.
		SetBilling(ctx context.Context, id uuid.UUID, valorCobrado float64, pagamentoEfetuado bool) error
	}

	PlanRepository interface {
		Create(ctx context.Context, plan *model.Plan) error
		Get(ctx context.Context, id uuid.UUID) (*model.Plan, error)
		Update(ctx context.Context, plan *model.Plan) error
		// Delete removes the plan and nulls plano_id on referencing teams
		// and invoices; historical valor copies stay untouched.
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Plan, error)
	}

	OperatorRepository interface {
		Create(ctx context.Context, op *model.Operator) error
		Get(ctx context.Context, id uuid.UUID) (*model.Operator, error)
		Update(ctx context.Context, op *model.Operator) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.Operator, error)
	}

	AnnotationRepository interface {
		Create(ctx context.Context, a *model.Annotation) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.Annotation, error)
	}

	// InvoiceRepository is the billing ledger. Rows are inserted only after
	// the provider accepted the charge; UpdateStatus is the single mutation
	// path afterwards.
	InvoiceRepository interface {
		Create(ctx context.Context, inv *model.Invoice) error
		Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
		// ListPaid returns every pago row with a recorded payment date,
		// for the validity-expiry phase.
		ListPaid(ctx context.Context) ([]*model.Invoice, error)
		// ListForSync returns pendente/vencido rows holding a provider
		// reference, for the provider-sync phase.
		ListForSync(ctx context.Context) ([]*model.Invoice, error)
		// LatestPaid returns the team's most recent paid invoice, or
		// ErrNotFound.
		LatestPaid(ctx context.Context, teamID uuid.UUID) (*model.Invoice, error)
		// UpdateStatus atomically sets status (and, when given, the payment
		// date) unless the row is cancelled, which is terminal.
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvoiceStatus, paidAt *time.Time) error
		Totals(ctx context.Context) (*model.BillingTotals, error)
	}

	AccessLinkRepository interface {
		Create(ctx context.Context, link *model.AccessLink) error
		Get(ctx context.Context, id uuid.UUID) (*model.AccessLink, error)
		// GetActiveByToken returns the active link for a token, or
		// ErrNotFound for unknown and disabled tokens alike.
		GetActiveByToken(ctx context.Context, token string) (*model.AccessLink, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		TouchAccess(ctx context.Context, id uuid.UUID, at time.Time) error
		ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*model.AccessLink, error)
		List(ctx context.Context) ([]*model.AccessLink, error)
	}

	RegistrationLinkRepository interface {
		Create(ctx context.Context, link *model.RegistrationLink) error
		GetActiveByToken(ctx context.Context, token string) (*model.RegistrationLink, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		IncrementUses(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.RegistrationLink, error)
	}
)
