package billing

import "time"

// ValidityDays is how long a single payment keeps a team in "paid" standing.
// After that the obligation renews: the invoice flips back to pendente and a
// new payment is required.
const ValidityDays = 38

// ValidUntil returns the last day (inclusive) on which a payment made at
// paidAt still counts. Comparisons are date-only; time of day is irrelevant.
func ValidUntil(paidAt time.Time) time.Time {
	y, m, d := paidAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, ValidityDays)
}

// IsPaymentValid is the one payment-window rule, shared by the reconciliation
// engine's batch expiry and the access gate's live check so the two can never
// disagree.
func IsPaymentValid(paidAt, asOf time.Time) bool {
	y, m, d := asOf.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !day.After(ValidUntil(paidAt))
}
