package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/money"
	"github.com/Chiki-tella/safesave/internal/store"
)

// Overrides is the demo fixture giving a fixed outstanding balance to
// an allow-list of accounts whose real balance is zero. It comes from
// seed configuration, never from business rules.
type Overrides struct {
	Names       map[string]bool
	Outstanding float64
}

// NewOverrides builds the override set from configured names.
func NewOverrides(names []string, outstanding float64) Overrides {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return Overrides{Names: set, Outstanding: outstanding}
}

// LoanService runs the request/approve/reject state machine and the
// read-side reconciliation that derives each member's loan standing
// from the denormalized slots.
type LoanService struct {
	Store     store.Store
	Log       *zap.Logger
	Overrides Overrides
}

// Request files a pending loan request.
func (s *LoanService) Request(ctx context.Context, amount float64, purpose, duration, requestedBy string) (domain.LoanRequest, error) {
	if amount <= 0 || strings.TrimSpace(requestedBy) == "" {
		return domain.LoanRequest{}, fmt.Errorf("%w: loan request needs a positive amount and a requester", ErrInvalidInput)
	}
	req := domain.LoanRequest{
		ID:          domain.NewID("loan"),
		Amount:      amount,
		Purpose:     purpose,
		Duration:    duration,
		Status:      domain.LoanPending,
		RequestedBy: requestedBy,
		RequestedAt: domain.Now(),
	}
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyLoanRequests, func(list []domain.LoanRequest) ([]domain.LoanRequest, error) {
		return append(list, req), nil
	})
	if err != nil {
		return domain.LoanRequest{}, err
	}
	return req, nil
}

// Approve moves a pending request to approved and credits the
// borrower: loan balance and wallet balance both grow by the amount,
// and a structured loan lands on the user record. The cached session
// user is rewritten when it is the borrower, keeping the one manual
// cache-coherence point in a single place.
//
// Approving is terminal: a request already decided returns
// ErrAlreadyDecided and applies nothing.
//
// A borrower with no user record is tolerated: the request still flips
// to approved, the credit is skipped and logged. The request and user
// slots are independent writes, so this partial outcome is reachable
// by design, not only by failure.
func (s *LoanService) Approve(ctx context.Context, requestID string) error {
	req, err := s.decide(ctx, requestID, domain.LoanApproved)
	if err != nil {
		return err
	}

	var credited *domain.User
	_, err = store.UpdateList(ctx, s.Store, s.Log, store.KeyUsers, func(users []domain.User) ([]domain.User, error) {
		credited = nil
		for i := range users {
			if users[i].Email != req.RequestedBy {
				continue
			}
			users[i].LoanBalance = money.Add(users[i].LoanBalance, req.Amount)
			users[i].WalletBalance = money.Add(users[i].WalletBalance, req.Amount)
			users[i].Loans.Append(domain.Loan{
				ID:          req.ID,
				Amount:      req.Amount,
				Purpose:     req.Purpose,
				Duration:    req.Duration,
				Status:      domain.LoanApproved,
				RequestedBy: req.RequestedBy,
				RequestedAt: req.RequestedAt,
			})
			u := users[i]
			credited = &u
			return users, nil
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("request %s approved but credit failed: %w", requestID, err)
	}
	if credited == nil {
		s.Log.Warn("loan approved for unknown user, credit skipped",
			zap.String("request", requestID),
			zap.String("email", req.RequestedBy))
		return nil
	}

	if err := s.mirrorSession(ctx, credited); err != nil {
		s.Log.Warn("session cache not refreshed after approval",
			zap.String("email", credited.Email), zap.Error(err))
	}

	s.Log.Info("loan approved",
		zap.String("request", requestID),
		zap.String("email", req.RequestedBy),
		zap.Float64("amount", req.Amount))
	return nil
}

// Reject moves a pending request to rejected. No balance effect.
func (s *LoanService) Reject(ctx context.Context, requestID string) error {
	_, err := s.decide(ctx, requestID, domain.LoanRejected)
	return err
}

func (s *LoanService) decide(ctx context.Context, requestID string, status domain.LoanStatus) (domain.LoanRequest, error) {
	var req domain.LoanRequest
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyLoanRequests, func(list []domain.LoanRequest) ([]domain.LoanRequest, error) {
		for i := range list {
			if list[i].ID != requestID {
				continue
			}
			if list[i].Status != domain.LoanPending {
				return nil, fmt.Errorf("%w: request %s is already %s", ErrAlreadyDecided, requestID, list[i].Status)
			}
			list[i].Status = status
			req = list[i]
			return list, nil
		}
		return nil, fmt.Errorf("%w: loan request %s", ErrNotFound, requestID)
	})
	if err != nil {
		return domain.LoanRequest{}, err
	}
	return req, nil
}

// mirrorSession overwrites the cached current_user copy when it is the
// borrower.
func (s *LoanService) mirrorSession(ctx context.Context, u *domain.User) error {
	cur, version, err := store.ReadRecord[domain.User](ctx, s.Store, s.Log, store.KeyCurrentUser)
	if err != nil {
		return err
	}
	if cur == nil || cur.Email != u.Email {
		return nil
	}
	return store.WriteRecord(ctx, s.Store, store.KeyCurrentUser, u, version)
}

// Pending returns pending requests filed by approved members.
func (s *LoanService) Pending(ctx context.Context) ([]domain.LoanRequest, error) {
	members, _, err := store.ReadList[domain.ApprovedMember](ctx, s.Store, s.Log, store.KeyApprovedMembers)
	if err != nil {
		return nil, err
	}
	approved := make(map[string]bool, len(members))
	for _, m := range members {
		if m.Email != "" {
			approved[m.Email] = true
		}
	}
	requests, _, err := store.ReadList[domain.LoanRequest](ctx, s.Store, s.Log, store.KeyLoanRequests)
	if err != nil {
		return nil, err
	}
	var out []domain.LoanRequest
	for _, r := range requests {
		if r.Status == domain.LoanPending && approved[r.RequestedBy] {
			out = append(out, r)
		}
	}
	return out, nil
}

// RecordRepayment appends a repayment entry to the member's per-email
// repayments slot. loanID ties the entry to one loan; empty keeps the
// legacy unlinked form.
func (s *LoanService) RecordRepayment(ctx context.Context, email string, amount float64, loanID string) error {
	if amount <= 0 || strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: repayment needs a positive amount and a member email", ErrInvalidInput)
	}
	entry := domain.LoanRepayment{Date: domain.Now(), Amount: amount, LoanID: loanID}
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.RepaymentsKey(email), func(list []domain.LoanRepayment) ([]domain.LoanRepayment, error) {
		return append(list, entry), nil
	})
	return err
}

// Repayments returns all repayment entries for a member.
func (s *LoanService) Repayments(ctx context.Context, email string) ([]domain.LoanRepayment, error) {
	list, _, err := store.ReadList[domain.LoanRepayment](ctx, s.Store, s.Log, store.RepaymentsKey(email))
	return list, err
}

// RepaymentsForLoan returns the entries shown under one loan. Entries
// carrying a loanId match only that loan; legacy entries without one
// match every loan, the pre-linkage behavior older slots rely on.
func (s *LoanService) RepaymentsForLoan(ctx context.Context, email, loanID string) ([]domain.LoanRepayment, error) {
	all, err := s.Repayments(ctx, email)
	if err != nil {
		return nil, err
	}
	var out []domain.LoanRepayment
	for _, r := range all {
		if r.LoanID == "" || r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out, nil
}
