package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

func TestMembersWithLoansNormalizesThreeShapes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newLoanService(t)

	structured := member("Alice Mukamana", "alice@example.com", 1000)
	legacy := member("Bob Kamanzi", "bob@example.com", 1000)
	counted := member("Carol Shimwa", "carol@example.com", 1000)
	counted.Loans = domain.LoanCount(2)
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{structured, legacy, counted})

	putList(t, s, store.KeyUsers, []domain.User{
		{
			Email:       "alice@example.com",
			Savings:     domain.NumericSavings(0),
			LoanBalance: 350,
			Loans:       domain.LoansOf(domain.Loan{ID: "loan-1", Amount: 350, Status: domain.LoanApproved}),
		},
		{
			Email:       "bob@example.com",
			Savings:     domain.NumericSavings(0),
			LoanBalance: 600,
		},
	})

	entries, err := svc.MembersWithLoans(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	byEmail := map[string]domain.MemberLoans{}
	for _, e := range entries {
		byEmail[e.Email] = e
	}

	alice := byEmail["alice@example.com"]
	require.Equal(t, 350.0, alice.LoanBalance)
	require.Len(t, alice.Loans, 1)
	require.Equal(t, "loan-1", alice.Loans[0].ID)

	// outstanding balance with no loan items becomes one legacy loan
	bob := byEmail["bob@example.com"]
	require.Equal(t, 600.0, bob.LoanBalance)
	require.Len(t, bob.Loans, 1)
	require.Equal(t, domain.LegacyLoanID("bob@example.com"), bob.Loans[0].ID)
	require.Equal(t, 600.0, bob.Loans[0].Amount)
	require.Equal(t, domain.LoanActive, bob.Loans[0].Status)

	// a bare count with no balance becomes one placeholder entry
	carol := byEmail["carol@example.com"]
	require.Len(t, carol.Loans, 1)
	require.Equal(t, domain.PlaceholderLoanID("carol@example.com"), carol.Loans[0].ID)
	require.Contains(t, carol.Loans[0].Purpose, "2 loan(s) recorded")
}

func TestMembersWithLoansReadsUserSideCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newLoanService(t)

	// the count lives on the user record, not the roster entry
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 1000),
	})
	putList(t, s, store.KeyUsers, []domain.User{{
		Email:   "alice@example.com",
		Savings: domain.NumericSavings(0),
		Loans:   domain.LoanCount(3),
	}})

	entries, err := svc.MembersWithLoans(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Loans, 1)
	require.Equal(t, domain.PlaceholderLoanID("alice@example.com"), entries[0].Loans[0].ID)
	require.Contains(t, entries[0].Loans[0].Purpose, "3 loan(s) recorded")
}

func TestMembersWithLoansSkipsMembersWithNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newLoanService(t)

	quiet := member("Quiet Member", "quiet@example.com", 2000)
	repaying := member("Repaying Member", "repaying@example.com", 2000)
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{quiet, repaying})
	require.NoError(t, svc.RecordRepayment(ctx, "repaying@example.com", 40, ""))

	entries, err := svc.MembersWithLoans(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "repaying@example.com", entries[0].Email)
	require.Len(t, entries[0].Repayments, 1)
}

func TestOverridesApplyToAllowListedNames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	svc := &LoanService{
		Store:     s,
		Log:       zap.NewNop(),
		Overrides: NewOverrides([]string{"Alice Mukamana"}, 500),
	}

	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 1000),
		member("Bob Kamanzi", "bob@example.com", 1000),
	})

	entries, err := svc.MembersWithLoans(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the overridden member has loan standing")
	require.Equal(t, "alice@example.com", entries[0].Email)
	require.Equal(t, 500.0, entries[0].LoanBalance)
	require.Len(t, entries[0].Loans, 1)
	require.Equal(t, domain.OverrideLoanID("alice@example.com"), entries[0].Loans[0].ID)
	require.Equal(t, 500.0, entries[0].Loans[0].Amount)
}

func TestOverridesNeverMaskRealBalances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	svc := &LoanService{
		Store:     s,
		Log:       zap.NewNop(),
		Overrides: NewOverrides([]string{"Alice Mukamana"}, 500),
	}

	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 1000),
	})
	putList(t, s, store.KeyUsers, []domain.User{{
		Email:       "alice@example.com",
		Savings:     domain.NumericSavings(0),
		LoanBalance: 800,
	}})

	entries, err := svc.MembersWithLoans(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 800.0, entries[0].LoanBalance, "a real balance wins over the override")
}

func TestOutstandingSumsUserBalancesWithOverrides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	svc := &LoanService{
		Store:     s,
		Log:       zap.NewNop(),
		Overrides: NewOverrides([]string{"Carol Shimwa"}, 500),
	}

	putList(t, s, store.KeyUsers, []domain.User{
		{Email: "alice@example.com", Savings: domain.NumericSavings(0), LoanBalance: 300},
		{Email: "bob@example.com", Savings: domain.NumericSavings(0), LoanBalance: 200},
		{Name: "Carol Shimwa", Email: "carol@example.com", Savings: domain.NumericSavings(0)},
	})

	total, err := svc.Outstanding(ctx)
	require.NoError(t, err)
	require.Equal(t, 1000.0, total, "300 + 200 real plus 500 override")
}

func TestOutstandingCountsBorrowersOffTheRoster(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newLoanService(t)

	// a wallet-connected borrower never appears on the roster but still
	// owes the group
	putList(t, s, store.KeyUsers, []domain.User{{
		Email:       "nami@wallet.com",
		Savings:     domain.NumericSavings(0),
		LoanBalance: 300,
	}})

	total, err := svc.Outstanding(ctx)
	require.NoError(t, err)
	require.Equal(t, 300.0, total)
}

func TestOutstandingIgnoresRosterOnlyOverrides(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)
	svc := &LoanService{
		Store:     s,
		Log:       zap.NewNop(),
		Overrides: NewOverrides([]string{"Carol Shimwa"}, 500),
	}

	// an overridden name with no user record shows in the member view
	// but contributes nothing to the users-slot total
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Carol Shimwa", "carol@example.com", 1000),
	})

	total, err := svc.Outstanding(ctx)
	require.NoError(t, err)
	require.Zero(t, total)
}
