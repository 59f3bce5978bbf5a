package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

func newSavingsService(t *testing.T) (*SavingsService, *store.Memory) {
	t.Helper()
	s := newStore(t)
	return &SavingsService{Store: s, Log: zap.NewNop()}, s
}

func TestDepositUpdatesRosterAndMirrorsUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 1000),
	})
	putList(t, s, store.KeyUsers, []domain.User{
		{Email: "alice@example.com", Savings: domain.NumericSavings(1000)},
	})

	require.NoError(t, svc.Deposit(ctx, "alice@example.com", 250, "weekly"))

	members := getList[domain.ApprovedMember](t, s, store.KeyApprovedMembers)
	require.Equal(t, 1250.0, members[0].TotalSavings)
	require.Len(t, members[0].Savings, 2)
	require.Equal(t, 250.0, members[0].Savings[1].Amount)
	require.Equal(t, "weekly", members[0].Savings[1].Note)

	users := getList[domain.User](t, s, store.KeyUsers)
	require.Equal(t, 1250.0, users[0].Savings.Total())
}

func TestDepositMirrorsItemizedUserHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 500),
	})
	putList(t, s, store.KeyUsers, []domain.User{{
		Email:        "alice@example.com",
		Savings:      domain.ItemizedSavings(domain.Deposit{Amount: 500, Date: domain.Now()}),
		TotalSavings: 500,
	}})

	require.NoError(t, svc.Deposit(ctx, "alice@example.com", 100, ""))

	users := getList[domain.User](t, s, store.KeyUsers)
	require.Len(t, users[0].Savings.History(), 2)
	require.Equal(t, 600.0, users[0].TotalSavings)
}

func TestDepositRequiresKnownMember(t *testing.T) {
	t.Parallel()
	svc, _ := newSavingsService(t)

	err := svc.Deposit(context.Background(), "ghost@example.com", 100, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDepositValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newSavingsService(t)

	require.ErrorIs(t, svc.Deposit(context.Background(), "a@b.co", 0, ""), ErrInvalidInput)
	require.ErrorIs(t, svc.Deposit(context.Background(), "", 100, ""), ErrInvalidInput)
}

func TestMembersSynthesizesHistoryFromBareTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	bare := domain.ApprovedMember{
		Name:         "Bob Kamanzi",
		Email:        "bob@example.com",
		TotalSavings: 3200,
		JoinedAt:     "2025-06-01T00:00:00Z",
	}
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{bare})

	members, err := svc.Members(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Len(t, members[0].Savings, 1)
	require.Equal(t, 3200.0, members[0].Savings[0].Amount)
	require.Equal(t, "2025-06-01T00:00:00Z", members[0].Savings[0].Date)
	require.Equal(t, 3200.0, members[0].TotalSavings)
}

func TestMembersRecomputesDriftedTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	drifted := member("Alice Mukamana", "alice@example.com", 1000)
	drifted.TotalSavings = 9999
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{drifted})

	members, err := svc.Members(ctx)
	require.NoError(t, err)
	require.Equal(t, 1000.0, members[0].TotalSavings, "totals come from the entries, not the stored field")

	// the stored record is untouched; Members is a read-side view
	stored := getList[domain.ApprovedMember](t, s, store.KeyApprovedMembers)
	require.Equal(t, 9999.0, stored[0].TotalSavings)
}

func TestSummaryAggregatesGroupSavings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{
		member("Alice Mukamana", "alice@example.com", 3000),
		member("Bob Kamanzi", "bob@example.com", 1000),
	})

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 4000.0, sum.TotalSavings)
	require.Equal(t, 2, sum.MemberCount)
	require.Equal(t, 2000.0, sum.AveragePerHead)
	require.Len(t, sum.Recent, 2)
}

func TestSummaryRecentIsNewestFirstAndCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newSavingsService(t)

	m := domain.ApprovedMember{
		Name:  "Alice Mukamana",
		Email: "alice@example.com",
	}
	for i := 0; i < 30; i++ {
		m.Savings = append(m.Savings, domain.Deposit{
			Amount: 10,
			Date:   "2026-01-01T00:00:00Z",
		})
	}
	m.Savings = append(m.Savings, domain.Deposit{Amount: 99, Date: "2026-08-01T00:00:00Z"})
	putList(t, s, store.KeyApprovedMembers, []domain.ApprovedMember{m})

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, sum.Recent, 20)
	require.Equal(t, 99.0, sum.Recent[0].Amount, "latest deposit leads the feed")
	require.Equal(t, "Alice Mukamana", sum.Recent[0].Name)
}

func TestSummaryOfEmptyGroup(t *testing.T) {
	t.Parallel()
	svc, _ := newSavingsService(t)

	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Zero(t, sum.TotalSavings)
	require.Zero(t, sum.MemberCount)
	require.Zero(t, sum.AveragePerHead)
	require.Empty(t, sum.Recent)
}
