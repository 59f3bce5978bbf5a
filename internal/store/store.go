// Package store implements the shared slot store: named key/value
// slots each holding one JSON-serialized record list, plus the change
// notifier that fans writes out to live views.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrVersionConflict is returned by Write when the slot changed since
// the caller's read. Whole-slot replace-writes stay the only mutation
// primitive, but the version check closes the lost-update window
// between two concurrent read-modify-write cycles.
var ErrVersionConflict = errors.New("store: version conflict")

// Slot keys. The per-member repayments slots are keyed by email via
// RepaymentsKey.
const (
	KeyUsers           = "users"
	KeyApprovedMembers = "approved_members"
	KeyPendingRequests = "pending_requests"
	KeyLoanRequests    = "loan_requests"
	KeyInvestments     = "investments"
	KeyCurrentUser     = "current_user"
)

// RepaymentsKey returns the slot key holding a member's repayment
// entries.
func RepaymentsKey(email string) string {
	return "loan_repayments_" + email
}

// Store is a versioned slot store. Read returns the raw payload and
// the slot's current version (zero for a missing slot). Write replaces
// the whole slot if and only if the version still matches.
//
// There are no cross-slot transactions: a mutation spanning two keys
// is two independent writes, and a failure between them leaves the
// first one applied.
type Store interface {
	Read(ctx context.Context, key string) (json.RawMessage, uint64, error)
	Write(ctx context.Context, key string, value json.RawMessage, version uint64) error
	Reset(ctx context.Context) error
}
