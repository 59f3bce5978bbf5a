// Package seed installs the demo fixtures: two sign-in accounts, the
// default investment portfolio, and a starter roster. Seeding is
// idempotent; slots that already hold data are left alone.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

// Options selects what gets seeded.
type Options struct {
	Demo          bool
	OverrideNames []string
}

// Run installs the fixtures. Each slot is seeded only when empty, so a
// store that already carries group data comes through untouched.
func Run(ctx context.Context, s store.Store, log *zap.Logger, opts Options) error {
	if !opts.Demo {
		return nil
	}
	if err := seedUsers(ctx, s, log); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedInvestments(ctx, s, log); err != nil {
		return fmt.Errorf("seed investments: %w", err)
	}
	if err := seedRoster(ctx, s, log, opts.OverrideNames); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}
	return nil
}

func seedUsers(ctx context.Context, s store.Store, log *zap.Logger) error {
	users, version, err := store.ReadList[domain.User](ctx, s, log, store.KeyUsers)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	member, err := account("Demo Member", "demo@example.com", "123456", domain.AccountMember)
	if err != nil {
		return err
	}
	admin, err := account("Demo Admin", "admin@example.com", "admin123", domain.AccountAdmin)
	if err != nil {
		return err
	}
	if err := store.WriteList(ctx, s, store.KeyUsers, []domain.User{member, admin}, version); err != nil {
		return err
	}
	log.Info("seeded demo accounts")
	return nil
}

func account(name, email, password string, t domain.AccountType) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:          domain.NewID("user"),
		FullName:    name,
		Email:       email,
		Password:    string(hash),
		AccountType: t,
		Savings:     domain.NumericSavings(0),
		CreatedAt:   domain.Now(),
	}, nil
}

func seedInvestments(ctx context.Context, s store.Store, log *zap.Logger) error {
	list, version, err := store.ReadList[domain.Investment](ctx, s, log, store.KeyInvestments)
	if err != nil {
		return err
	}
	if len(list) > 0 {
		return nil
	}

	now := domain.Now()
	defaults := []domain.Investment{
		{
			ID:          domain.NewID("inv"),
			Title:       "Community Shop Expansion",
			Description: "Stocking and extending the group-run shop",
			Invested:    15000,
			ExpectedROI: 12,
			ProfitSoFar: 2300,
			Status:      domain.InvestmentActive,
			Progress:    70,
			CreatedAt:   now,
		},
		{
			ID:          domain.NewID("inv"),
			Title:       "Irrigation Project",
			Description: "Drip irrigation for member plots",
			Invested:    10000,
			ExpectedROI: 18,
			ProfitSoFar: 1800,
			Status:      domain.InvestmentActive,
			Progress:    55,
			CreatedAt:   now,
		},
		{
			ID:          domain.NewID("inv"),
			Title:       "Motorbike Taxi Fleet",
			Description: "Two motorbikes operated by group riders",
			Invested:    8000,
			ExpectedROI: 14,
			ProfitSoFar: 1500,
			Status:      domain.InvestmentCompleted,
			Progress:    100,
			CreatedAt:   now,
		},
	}
	if err := store.WriteList(ctx, s, store.KeyInvestments, defaults, version); err != nil {
		return err
	}
	log.Info("seeded default investments", zap.Int("count", len(defaults)))
	return nil
}

func seedRoster(ctx context.Context, s store.Store, log *zap.Logger, names []string) error {
	members, version, err := store.ReadList[domain.ApprovedMember](ctx, s, log, store.KeyApprovedMembers)
	if err != nil {
		return err
	}
	if len(members) > 0 || len(names) == 0 {
		return nil
	}

	now := domain.Now()
	seeded := make([]domain.ApprovedMember, 0, len(names))
	for i, name := range names {
		seeded = append(seeded, domain.ApprovedMember{
			ID:           domain.NewID("member"),
			Name:         name,
			Email:        fmt.Sprintf("member%d@example.com", i+1),
			TotalSavings: 5000,
			Savings: domain.DepositList{{
				Amount: 5000,
				Date:   now,
				Note:   "Opening balance",
			}},
			JoinedAt: now,
		})
	}
	if err := store.WriteList(ctx, s, store.KeyApprovedMembers, seeded, version); err != nil {
		return err
	}
	log.Info("seeded starter roster", zap.Int("count", len(seeded)))
	return nil
}
