package service

import (
	"context"
	"fmt"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/money"
	"github.com/Chiki-tella/safesave/internal/store"
)

// MembersWithLoans builds the admin view of every member's loan
// standing. It joins the roster against the users slot and the
// per-email repayments slots, normalizes the three historic loan
// shapes into structured lists, and applies the demo overrides.
// Members with no loans, no balance and no repayments are left out.
func (s *LoanService) MembersWithLoans(ctx context.Context) ([]domain.MemberLoans, error) {
	members, _, err := store.ReadList[domain.ApprovedMember](ctx, s.Store, s.Log, store.KeyApprovedMembers)
	if err != nil {
		return nil, err
	}
	users, _, err := store.ReadList[domain.User](ctx, s.Store, s.Log, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*domain.User, len(users))
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}

	var out []domain.MemberLoans
	for _, m := range members {
		user := byEmail[m.Email]
		entry := s.normalizeLoans(m, user)
		repayments, err := s.Repayments(ctx, m.Email)
		if err != nil {
			return nil, err
		}
		entry.Repayments = repayments
		if len(entry.Loans) > 0 || entry.LoanBalance > 0 || len(entry.Repayments) > 0 {
			out = append(out, entry)
		}
	}
	return out, nil
}

// normalizeLoans reconciles the three loan shapes a member record can
// carry into one structured list:
//
//   - structured loans on the user record are taken as-is;
//   - an outstanding balance with no loan items becomes one synthetic
//     legacy loan covering the whole balance;
//   - a bare numeric count with no balance becomes one placeholder
//     entry so the count stays visible.
//
// Synthetic entries exist only in this view and are never written
// back.
func (s *LoanService) normalizeLoans(m domain.ApprovedMember, user *domain.User) domain.MemberLoans {
	name := m.Name
	balance := m.LoanBalance
	loans := m.Loans
	if user != nil {
		if name == "" {
			name = user.DisplayName()
		}
		if user.LoanBalance > 0 {
			balance = user.LoanBalance
		}
		if !user.Loans.IsCount() && user.Loans.Count() > 0 {
			loans = user.Loans
		}
	}

	items := loans.Items()
	count := loans.Count()
	if count == 0 && user != nil && user.Loans.IsCount() {
		count = user.Loans.Count()
	}
	if len(items) == 0 && balance > 0 {
		items = []domain.Loan{{
			ID:       domain.LegacyLoanID(m.Email),
			Amount:   balance,
			Purpose:  "Legacy loan",
			Duration: "N/A",
			Status:   domain.LoanActive,
		}}
	} else if len(items) == 0 && count > 0 {
		items = []domain.Loan{{
			ID:      domain.PlaceholderLoanID(m.Email),
			Amount:  0,
			Purpose: fmt.Sprintf("%d loan(s) recorded", count),
			Status:  domain.LoanActive,
		}}
	}

	entry := domain.MemberLoans{
		Name:        name,
		Email:       m.Email,
		LoanBalance: balance,
		Loans:       items,
	}
	s.applyOverride(&entry)
	return entry
}

// applyOverride forces the configured demo balance onto allow-listed
// names whose real balance is zero.
func (s *LoanService) applyOverride(entry *domain.MemberLoans) {
	if !s.Overrides.Names[entry.Name] || entry.LoanBalance != 0 {
		return
	}
	entry.LoanBalance = s.Overrides.Outstanding
	if len(entry.Loans) == 0 {
		entry.Loans = []domain.Loan{{
			ID:      domain.OverrideLoanID(entry.Email),
			Amount:  s.Overrides.Outstanding,
			Purpose: "Override balance",
			Status:  domain.LoanActive,
		}}
		return
	}
	for i := range entry.Loans {
		if entry.Loans[i].Amount == 0 {
			entry.Loans[i].Amount = s.Overrides.Outstanding
		}
	}
}

// Outstanding sums the loan balances across every user record with the
// demo override applied per name. The users slot is the source, not
// the roster join: borrowers without a roster entry (wallet-connected
// accounts among them) still count toward the group total.
func (s *LoanService) Outstanding(ctx context.Context) (float64, error) {
	users, _, err := store.ReadList[domain.User](ctx, s.Store, s.Log, store.KeyUsers)
	if err != nil {
		return 0, err
	}
	balances := make([]float64, 0, len(users))
	for _, u := range users {
		balance := u.LoanBalance
		if balance == 0 && s.Overrides.Names[u.DisplayName()] {
			balance = s.Overrides.Outstanding
		}
		balances = append(balances, balance)
	}
	return money.Sum(balances), nil
}
