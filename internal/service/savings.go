package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/money"
	"github.com/Chiki-tella/safesave/internal/store"
)

// recentDepositCap bounds the recent-activity feed in the group
// summary.
const recentDepositCap = 20

// SavingsService records member deposits and derives the group savings
// views from the roster.
type SavingsService struct {
	Store store.Store
	Log   *zap.Logger
}

// MemberDeposit is one deposit attributed to a named member, used by
// the recent-activity feed.
type MemberDeposit struct {
	Name string
	domain.Deposit
}

// GroupSummary is the derived group savings view, recomputed from the
// roster on every call.
type GroupSummary struct {
	TotalSavings   float64
	MemberCount    int
	AveragePerHead float64
	Recent         []MemberDeposit
}

// Deposit appends a savings entry to a member's roster record and
// mirrors it onto the user record when one exists. The roster is the
// source of truth for group savings; the user copy keeps the member's
// own view in step.
func (s *SavingsService) Deposit(ctx context.Context, email string, amount float64, note string) error {
	if amount <= 0 || strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: deposit needs a positive amount and a member email", ErrInvalidInput)
	}
	entry := domain.Deposit{Amount: amount, Date: domain.Now(), Note: note}

	found := false
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyApprovedMembers, func(members []domain.ApprovedMember) ([]domain.ApprovedMember, error) {
		found = false
		for i := range members {
			if members[i].Email != email {
				continue
			}
			members[i].Savings = append(members[i].Savings, entry)
			members[i].TotalSavings = money.Add(members[i].TotalSavings, amount)
			found = true
			return members, nil
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: approved member %s", ErrNotFound, email)
	}

	_, err = store.UpdateList(ctx, s.Store, s.Log, store.KeyUsers, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].Email != email {
				continue
			}
			u := &users[i]
			if u.Savings.IsItemized() {
				u.Savings.Append(entry)
				u.TotalSavings = money.Add(u.TotalSavings, amount)
			} else {
				u.Savings.SetTotal(money.Add(u.Savings.Total(), amount))
			}
			return users, nil
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("deposit recorded for %s but user mirror failed: %w", email, err)
	}

	s.Log.Info("deposit recorded",
		zap.String("email", email),
		zap.Float64("amount", amount))
	return nil
}

// Members returns the roster with savings normalized: a member whose
// record carries only a numeric total gets a single synthetic deposit
// dated at their join date, and every total is recomputed from the
// entries so drifted records read consistently.
func (s *SavingsService) Members(ctx context.Context) ([]domain.ApprovedMember, error) {
	members, _, err := store.ReadList[domain.ApprovedMember](ctx, s.Store, s.Log, store.KeyApprovedMembers)
	if err != nil {
		return nil, err
	}
	for i := range members {
		m := &members[i]
		if len(m.Savings) == 0 && m.TotalSavings > 0 {
			m.Savings = domain.DepositList{{
				Amount: m.TotalSavings,
				Date:   m.JoinedAt,
				Note:   "Opening balance",
			}}
		}
		amounts := make([]float64, 0, len(m.Savings))
		for _, d := range m.Savings {
			amounts = append(amounts, d.Amount)
		}
		m.TotalSavings = money.Sum(amounts)
	}
	return members, nil
}

// Summary recomputes the group savings totals from the normalized
// roster.
func (s *SavingsService) Summary(ctx context.Context) (GroupSummary, error) {
	members, err := s.Members(ctx)
	if err != nil {
		return GroupSummary{}, err
	}

	totals := make([]float64, 0, len(members))
	var recent []MemberDeposit
	for _, m := range members {
		totals = append(totals, m.TotalSavings)
		for _, d := range m.Savings {
			recent = append(recent, MemberDeposit{Name: m.Name, Deposit: d})
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if len(recent) > recentDepositCap {
		recent = recent[:recentDepositCap]
	}

	sum := GroupSummary{
		TotalSavings: money.Sum(totals),
		MemberCount:  len(members),
		Recent:       recent,
	}
	if sum.MemberCount > 0 {
		sum.AveragePerHead = money.Share(sum.TotalSavings, sum.MemberCount)
	}
	return sum, nil
}
