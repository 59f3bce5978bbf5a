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

// contributionNote labels the negative deposit entries an investment
// leaves in each member's history.
const contributionNote = "investment contribution"

// InvestmentService records group investments and applies the pro-rata
// deduction against every member's savings.
type InvestmentService struct {
	Store store.Store
	Log   *zap.Logger
}

// InvestmentSummary is the derived totals view, recomputed from the
// raw list on every call.
type InvestmentSummary struct {
	TotalInvested float64
	TotalProfit   float64
	AverageROI    float64
}

// Record creates an investment and funds it by deducting an even share
// from every approved member and every user.
//
// The roster and the user list may have different membership, so each
// list gets its own divisor: share is amount over that list's own
// count. Deductions floor at zero; the part of a share a small balance
// cannot cover is lost by policy.
//
// The investment append and the two deductions are independent slot
// writes. A failure partway through leaves the earlier writes applied;
// the error reports it, nothing rolls back.
//
// Record is not idempotent. Calling it twice deducts twice.
func (s *InvestmentService) Record(ctx context.Context, title, description string, amount, expectedROI float64) (domain.Investment, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || amount <= 0 {
		return domain.Investment{}, fmt.Errorf("%w: investment needs a title, a description and a positive amount", ErrInvalidInput)
	}

	inv := domain.Investment{
		ID:          domain.NewID("inv"),
		Title:       title,
		Description: description,
		Invested:    amount,
		ExpectedROI: expectedROI,
		ProfitSoFar: 0,
		Status:      domain.InvestmentActive,
		Progress:    0,
		CreatedAt:   domain.Now(),
	}

	if _, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyInvestments, func(list []domain.Investment) ([]domain.Investment, error) {
		return append([]domain.Investment{inv}, list...), nil
	}); err != nil {
		return domain.Investment{}, err
	}

	if err := s.deductFromRoster(ctx, amount); err != nil {
		return inv, fmt.Errorf("investment %s recorded but roster deduction failed: %w", inv.ID, err)
	}
	if err := s.deductFromUsers(ctx, amount); err != nil {
		return inv, fmt.Errorf("investment %s recorded but user deduction failed: %w", inv.ID, err)
	}

	s.Log.Info("investment recorded",
		zap.String("id", inv.ID),
		zap.Float64("amount", amount))
	return inv, nil
}

func (s *InvestmentService) deductFromRoster(ctx context.Context, amount float64) error {
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyApprovedMembers, func(members []domain.ApprovedMember) ([]domain.ApprovedMember, error) {
		if len(members) == 0 {
			return nil, nil
		}
		share := money.Share(amount, len(members))
		now := domain.Now()
		for i := range members {
			members[i].TotalSavings = money.SubFloored(members[i].TotalSavings, share)
			members[i].Savings = append(members[i].Savings, domain.Deposit{
				Amount: -share,
				Date:   now,
				Note:   contributionNote,
			})
		}
		return members, nil
	})
	return err
}

func (s *InvestmentService) deductFromUsers(ctx context.Context, amount float64) error {
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyUsers, func(users []domain.User) ([]domain.User, error) {
		if len(users) == 0 {
			return nil, nil
		}
		share := money.Share(amount, len(users))
		now := domain.Now()
		for i := range users {
			u := &users[i]
			if u.Savings.IsItemized() {
				u.Savings.Append(domain.Deposit{Amount: -share, Date: now, Note: contributionNote})
				u.TotalSavings = money.SubFloored(u.TotalSavings, share)
			} else {
				u.Savings.SetTotal(money.SubFloored(u.Savings.Total(), share))
			}
		}
		return users, nil
	})
	return err
}

// List returns all investments, newest first.
func (s *InvestmentService) List(ctx context.Context) ([]domain.Investment, error) {
	list, _, err := store.ReadList[domain.Investment](ctx, s.Store, s.Log, store.KeyInvestments)
	return list, err
}

// Summary recomputes the totals from the raw list.
func (s *InvestmentService) Summary(ctx context.Context) (InvestmentSummary, error) {
	list, err := s.List(ctx)
	if err != nil {
		return InvestmentSummary{}, err
	}
	invested := make([]float64, 0, len(list))
	profit := make([]float64, 0, len(list))
	for _, inv := range list {
		invested = append(invested, inv.Invested)
		profit = append(profit, inv.ProfitSoFar)
	}
	sum := InvestmentSummary{
		TotalInvested: money.Sum(invested),
		TotalProfit:   money.Sum(profit),
	}
	if sum.TotalInvested > 0 {
		sum.AverageROI = sum.TotalProfit / sum.TotalInvested * 100
	}
	return sum, nil
}
