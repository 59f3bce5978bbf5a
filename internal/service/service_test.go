package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

func newStore(t *testing.T) *store.Memory {
	t.Helper()
	return store.NewMemory(nil, zap.NewNop())
}

func putList[T any](t *testing.T, s store.Store, key string, list []T) {
	t.Helper()
	_, version, err := s.Read(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, store.WriteList(context.Background(), s, key, list, version))
}

func getList[T any](t *testing.T, s store.Store, key string) []T {
	t.Helper()
	list, _, err := store.ReadList[T](context.Background(), s, zap.NewNop(), key)
	require.NoError(t, err)
	return list
}

func member(name, email string, total float64) domain.ApprovedMember {
	return domain.ApprovedMember{
		ID:           domain.NewID("member"),
		Name:         name,
		Email:        email,
		TotalSavings: total,
		Savings: domain.DepositList{{
			Amount: total,
			Date:   domain.Now(),
			Note:   "Opening balance",
		}},
		JoinedAt: domain.Now(),
	}
}
