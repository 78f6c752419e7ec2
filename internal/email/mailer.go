package email

import (
	"context"
	"time"
)

// Mailer sends the transactional emails the billing flow produces. Every send
// is best-effort; callers log failures and move on.
type Mailer interface {
	SendPaymentConfirmation(ctx context.Context, to, teamName string, amount float64, paidAt time.Time) error
	SendInvoiceCreated(ctx context.Context, to, teamName string, amount float64, dueDate time.Time, paymentURL string) error
}

// Nop is used when SMTP is not configured; sends succeed silently.
type Nop struct{}

func (Nop) SendPaymentConfirmation(context.Context, string, string, float64, time.Time) error {
	return nil
}

func (Nop) SendInvoiceCreated(context.Context, string, string, float64, time.Time, string) error {
	return nil
}
