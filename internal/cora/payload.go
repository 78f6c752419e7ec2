package cora

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Contractual late-payment terms applied to every charge.
	fineRate         = 0.02  // 2% of the invoice amount
	interestDailyPct = 0.033 // 0.033% per day

	maxDescriptionLen = 100
)

// Email notification schedule attached to every invoice.
var notificationRules = []string{
	"NOTIFY_SEVEN_DAYS_BEFORE_DUE_DATE",
	"NOTIFY_TWO_DAYS_BEFORE_DUE_DATE",
	"NOTIFY_ON_DUE_DATE",
	"NOTIFY_WHEN_PAID",
}

// InvoiceRequest is the local description of a charge to be issued.
type InvoiceRequest struct {
	TeamID       uuid.UUID
	CustomerName string
	Email        string
	Document     string // CPF or CNPJ, punctuation allowed
	Address      Address
	ServiceName  string
	Description  string
	Amount       float64 // decimal currency units (BRL)
	DueDate      time.Time
	Pix          bool
	Recurring    bool
}

// ToCents converts a decimal amount to integer minor units.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// CentsToValue is the inverse of ToCents.
func CentsToValue(c int64) float64 {
	return float64(c) / 100
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDocument strips punctuation and infers the document type from the
// digit count: 11 is a CPF, 14 a CNPJ. Anything else is rejected before any
// provider call is made.
func NormalizeDocument(raw string) (Document, error) {
	digits := onlyDigits(raw)
	switch len(digits) {
	case 11:
		return Document{Identity: digits, Type: "CPF"}, nil
	case 14:
		return Document{Identity: digits, Type: "CNPJ"}, nil
	default:
		return Document{}, &Error{
			Kind:    KindValidation,
			Status:  400,
			Message: fmt.Sprintf("documento inválido: esperado CPF (11 dígitos) ou CNPJ (14 dígitos), recebido %d", len(digits)),
		}
	}
}

// BuildCode derives the provider-visible invoice code. Recurring charges are
// prefixed by the billing month so renewals of the same team stay grouped.
func BuildCode(teamID uuid.UUID, recurring bool, now time.Time) string {
	prefix := "UNI"
	if recurring {
		prefix = "REC-" + now.Format("2006-01")
	}
	return fmt.Sprintf("%s-%s-%d", prefix, teamID.String()[:8], now.Unix())
}

// BuildPayload assembles the provider invoice body. It fails locally, without
// touching the provider, when the customer document is malformed.
func BuildPayload(req InvoiceRequest, now time.Time) (*InvoicePayload, error) {
	doc, err := NormalizeDocument(req.Document)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	amountCents := ToCents(req.Amount)
	payload := &InvoicePayload{
		Code: BuildCode(req.TeamID, req.Recurring, now),
		Customer: Customer{
			Name:     req.CustomerName,
			Email:    req.Email,
			Document: doc,
			Address:  req.Address,
		},
		Services: []ServiceLine{{
			Name:        req.ServiceName,
			Description: description,
			Amount:      amountCents,
		}},
		PaymentTerms: PaymentTerms{
			DueDate:  req.DueDate.Format("2006-01-02"),
			Fine:     Fine{Amount: int64(math.Round(float64(amountCents) * fineRate))},
			Interest: Interest{Rate: interestDailyPct},
		},
		Notification: &Notification{
			Name: req.CustomerName,
			Channels: []NotificationChannel{{
				Contact: req.Email,
				Channel: "EMAIL",
				Rules:   notificationRules,
			}},
		},
	}

	if req.Pix {
		payload.PaymentForms = []string{"PIX"}
	}

	return payload, nil
}
