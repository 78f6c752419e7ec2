package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LucasNeuro/fta-form-sub000/internal/model"
	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

const invoiceColumns = `
	id, equipe_id, plano_id, cora_invoice_id, valor, vencimento, tipo,
	forma_pagamento, status, data_pagamento, pdf_url, pix_qr_code,
	pix_copy_paste, pix_payment_url, observacoes, criado_por,
	created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	query := `
		INSERT INTO boletos (
			id, equipe_id, plano_id, cora_invoice_id, valor, vencimento, tipo,
			forma_pagamento, status, data_pagamento, pdf_url, pix_qr_code,
			pix_copy_paste, pix_payment_url, observacoes, criado_por,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		inv.ID,
		inv.EquipeID,
		inv.PlanoID,
		inv.CoraInvoiceID,
		inv.Valor,
		inv.Vencimento,
		inv.Tipo,
		inv.FormaPag,
		inv.Status,
		inv.DataPagamento,
		inv.PdfURL,
		inv.PixQrCode,
		inv.PixCopyPaste,
		inv.PixPaymentURL,
		inv.Observacoes,
		inv.CriadoPor,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM boletos WHERE id = $1`

	var inv model.Invoice
	err := r.db.GetContext(ctx, &inv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM boletos WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.EquipeID != nil {
			query += fmt.Sprintf(" AND equipe_id = $%d", argCount)
			args = append(args, *filters.EquipeID)
			argCount++
		}
		if filters.Status != nil {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, *filters.Status)
			argCount++
		}
		if filters.StartDate != nil {
			query += fmt.Sprintf(" AND vencimento >= $%d", argCount)
			args = append(args, *filters.StartDate)
			argCount++
		}
		if filters.EndDate != nil {
			query += fmt.Sprintf(" AND vencimento <= $%d", argCount)
			args = append(args, *filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY created_at DESC"

	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListPaid(ctx context.Context) ([]*model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM boletos
		WHERE status = 'pago' AND data_pagamento IS NOT NULL
		ORDER BY data_pagamento DESC
	`
	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query); err != nil {
		return nil, fmt.Errorf("failed to list paid invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListForSync(ctx context.Context) ([]*model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM boletos
		WHERE status IN ('pendente', 'vencido') AND cora_invoice_id IS NOT NULL
		ORDER BY created_at ASC
	`
	var invoices []*model.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query); err != nil {
		return nil, fmt.Errorf("failed to list invoices for sync: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) LatestPaid(ctx context.Context, teamID uuid.UUID) (*model.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM boletos
		WHERE equipe_id = $1 AND status = 'pago' AND data_pagamento IS NOT NULL
		ORDER BY data_pagamento DESC
		LIMIT 1
	`
	var inv model.Invoice
	err := r.db.GetContext(ctx, &inv, query, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest paid invoice: %w", err)
	}
	return &inv, nil
}

// UpdateStatus is the single post-creation write path for status and payment
// date. One atomic UPDATE keyed by id, so concurrent reconciliation runs
// cannot interleave partial writes. A nil paidAt leaves data_pagamento as it
// is, which is how validity expiry flips status without erasing payment
// history. Cancelled rows never transition out.
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvoiceStatus, paidAt *time.Time) error {
	query := `
		UPDATE boletos
		SET status = $2,
		    data_pagamento = COALESCE($3, data_pagamento),
		    updated_at = $4
		WHERE id = $1 AND status <> 'cancelado'
	`
	result, err := r.db.ExecContext(ctx, query, id, status, paidAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Either missing or already cancelled; look to tell them apart.
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM boletos WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check invoice existence: %w", err)
		}
		if exists {
			return repository.ErrTerminalStatus
		}
		return repository.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) Totals(ctx context.Context) (*model.BillingTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(valor) FILTER (WHERE status = 'pago'), 0)      AS arrecadado,
			COALESCE(SUM(valor) FILTER (WHERE status = 'pendente'), 0)  AS pendente,
			COALESCE(SUM(valor) FILTER (WHERE status <> 'cancelado'), 0) AS previsto
		FROM boletos
	`
	var totals model.BillingTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("failed to compute billing totals: %w", err)
	}
	return &totals, nil
}
