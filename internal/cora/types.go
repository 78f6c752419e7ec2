package cora

import "encoding/json"

// Provider-side invoice statuses as reported by the Cora API.
const (
	StatusOpen      = "OPEN"
	StatusInPayment = "IN_PAYMENT"
	StatusPaid      = "PAID"
	StatusLate      = "LATE"
	StatusCancelled = "CANCELLED"
)

// Token is the client-credentials grant response.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type Document struct {
	Identity string `json:"identity"`
	Type     string `json:"type"` // CPF or CNPJ
}

type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Complement string `json:"complement,omitempty"`
	ZipCode    string `json:"zip_code"`
}

type Customer struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Document Document `json:"document"`
	Address  Address  `json:"address"`
}

type ServiceLine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"` // integer cents
}

type Fine struct {
	Amount int64 `json:"amount"` // integer cents
}

type Interest struct {
	Rate float64 `json:"rate"`
}

type PaymentTerms struct {
	DueDate  string   `json:"due_date"` // YYYY-MM-DD
	Fine     Fine     `json:"fine"`
	Interest Interest `json:"interest"`
}

type NotificationChannel struct {
	Contact string   `json:"contact"`
	Channel string   `json:"channel"`
	Rules   []string `json:"rules"`
}

type Notification struct {
	Name     string                `json:"name"`
	Channels []NotificationChannel `json:"channels"`
}

// InvoicePayload is the body the relay forwards to POST /v2/invoices.
type InvoicePayload struct {
	Code         string        `json:"code"`
	Customer     Customer      `json:"customer"`
	Services     []ServiceLine `json:"services"`
	PaymentTerms PaymentTerms  `json:"payment_terms"`
	PaymentForms []string      `json:"payment_forms,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

// Pix carries the instant-payment artifacts of an accepted charge.
type Pix struct {
	EMV        string `json:"emv"`         // copy-and-paste code
	QRCodeURL  string `json:"qr_code_url"` // rendered QR image
	PaymentURL string `json:"payment_url"`
}

// Invoice is the provider's view of an accepted charge.
type Invoice struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	TotalAmount    int64  `json:"total_amount"`
	DueDate        string `json:"due_date"`
	OccurrenceDate string `json:"occurrence_date,omitempty"`
	PaymentURL     string `json:"payment_url,omitempty"`
	PDFURL         string `json:"pdf_url,omitempty"`
	Pix            *Pix   `json:"pix,omitempty"`
}

// relayEnvelope is the relay's response wrapper.
type relayEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}
