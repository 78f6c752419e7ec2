package model

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPendente  InvoiceStatus = "pendente"
	InvoiceStatusPago      InvoiceStatus = "pago"
	InvoiceStatusVencido   InvoiceStatus = "vencido"
	InvoiceStatusCancelado InvoiceStatus = "cancelado"
)

type InvoiceType string

const (
	InvoiceTypeUnico      InvoiceType = "unico"
	InvoiceTypeRecorrente InvoiceType = "recorrente"
)

type PaymentMethod string

const (
	PaymentMethodBoleto PaymentMethod = "boleto"
	PaymentMethodPix    PaymentMethod = "pix"
)

// Invoice is one row of the billing ledger ("boleto"). A row only exists for
// requests the payment provider accepted; CoraInvoiceID is the provider-side
// identity. Status and DataPagamento are mutated exclusively through
// InvoiceRepository.UpdateStatus after creation. Rows are never deleted;
// cancellation is a terminal status transition.
type Invoice struct {
	ID            uuid.UUID     `db:"id" json:"id"`
	EquipeID      uuid.UUID     `db:"equipe_id" json:"equipe_id"`
	PlanoID       *uuid.UUID    `db:"plano_id" json:"plano_id,omitempty"`
	CoraInvoiceID *string       `db:"cora_invoice_id" json:"cora_invoice_id,omitempty"`
	Valor         float64       `db:"valor" json:"valor"`
	Vencimento    time.Time     `db:"vencimento" json:"vencimento"`
	Tipo          InvoiceType   `db:"tipo" json:"tipo"`
	FormaPag      PaymentMethod `db:"forma_pagamento" json:"forma_pagamento"`
	Status        InvoiceStatus `db:"status" json:"status"`
	DataPagamento *time.Time    `db:"data_pagamento" json:"data_pagamento,omitempty"`
	PdfURL        *string       `db:"pdf_url" json:"pdf_url,omitempty"`
	PixQrCode     *string       `db:"pix_qr_code" json:"pix_qr_code,omitempty"`
	PixCopyPaste  *string       `db:"pix_copy_paste" json:"pix_copy_paste,omitempty"`
	PixPaymentURL *string       `db:"pix_payment_url" json:"pix_payment_url,omitempty"`
	Observacoes   string        `db:"observacoes" json:"observacoes"`
	CriadoPor     string        `db:"criado_por" json:"criado_por"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

type CreateInvoiceRequest struct {
	EquipeID    string  `json:"equipe_id" binding:"required,uuid"`
	PlanoID     *string `json:"plano_id"`
	Valor       float64 `json:"valor" binding:"required,gt=0"`
	Vencimento  string  `json:"vencimento" binding:"required,datetime=2006-01-02"`
	Tipo        string  `json:"tipo" binding:"required,oneof=unico recorrente"`
	FormaPag    string  `json:"forma_pagamento" binding:"required,oneof=boleto pix"`
	Observacoes string  `json:"observacoes" binding:"max=500"`
}

type InvoiceFilters struct {
	EquipeID  *uuid.UUID
	Status    *InvoiceStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// BillingTotals are derived from the ledger, never stored.
type BillingTotals struct {
	Arrecadado float64 `db:"arrecadado" json:"arrecadado"` // sum where status = pago
	Pendente   float64 `db:"pendente" json:"pendente"`     // sum where status = pendente
	Previsto   float64 `db:"previsto" json:"previsto"`     // sum where status <> cancelado
}

// ReconcileSummary is the best-effort batch result of a reconciliation run.
// The run itself never fails; per-invoice problems are counted here.
type ReconcileSummary struct {
	Expired int `json:"expired"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}
