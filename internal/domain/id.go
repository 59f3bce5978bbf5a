package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID builds a record id in the historical prefix-timestamp form
// with a uuid suffix appended. The original scheme was prefix plus
// millis alone, which collides under rapid repeated calls.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// LegacyLoanID names the loan synthesized from a bare loanBalance.
func LegacyLoanID(email string) string { return "legacy-" + email }

// PlaceholderLoanID names the loan synthesized from a numeric loans
// count.
func PlaceholderLoanID(email string) string { return "placeholder-" + email }

// OverrideLoanID names the loan synthesized for demo override members.
func OverrideLoanID(email string) string { return "override-" + email }

// Now returns the timestamp format used across stored records.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
