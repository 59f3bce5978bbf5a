package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

func newAccountService(t *testing.T) (*AccountService, *store.Memory) {
	t.Helper()
	s := newStore(t)
	return &AccountService{Store: s, Log: zap.NewNop()}, s
}

func validSignUp() SignUpInput {
	return SignUpInput{
		FullName:    "Jane Uwase",
		Email:       "jane@example.com",
		Password:    "secret1",
		Confirm:     "secret1",
		Phone:       "+250780000000",
		Location:    "Kigali",
		AccountType: domain.AccountMember,
		GroupCode:   "SAFE-01",
		GroupName:   "Umurava Group",
		AgreeTerms:  true,
	}
}

func TestSignUpCreatesMemberAndFilesRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newAccountService(t)

	user, err := svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "secret1", user.Password, "password is stored hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))

	requests := getList[domain.MembershipRequest](t, s, store.KeyPendingRequests)
	require.Len(t, requests, 1)
	require.Equal(t, "jane@example.com", requests[0].Email)
	require.Equal(t, "Jane Uwase", requests[0].Name)

	cached, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	require.Equal(t, "jane@example.com", cached.Email)
}

func TestSignUpAdminSkipsMembershipRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newAccountService(t)

	in := validSignUp()
	in.AccountType = domain.AccountAdmin
	_, err := svc.SignUp(ctx, in)
	require.NoError(t, err)

	require.Empty(t, getList[domain.MembershipRequest](t, s, store.KeyPendingRequests))
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountService(t)

	cases := []struct {
		name   string
		mutate func(*SignUpInput)
	}{
		{"missing name", func(in *SignUpInput) { in.FullName = " " }},
		{"bad email", func(in *SignUpInput) { in.Email = "not-an-email" }},
		{"short password", func(in *SignUpInput) { in.Password, in.Confirm = "abc", "abc" }},
		{"mismatched confirm", func(in *SignUpInput) { in.Confirm = "different" }},
		{"short phone", func(in *SignUpInput) { in.Phone = "12345" }},
		{"terms not accepted", func(in *SignUpInput) { in.AgreeTerms = false }},
		{"bad account type", func(in *SignUpInput) { in.AccountType = "owner" }},
		{"admin without group name", func(in *SignUpInput) {
			in.AccountType = domain.AccountAdmin
			in.GroupName = ""
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSignUp()
			tc.mutate(&in)
			_, err := svc.SignUp(ctx, in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSignUpRejectsTakenEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, validSignUp())
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInVerifiesHashedPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	user, err := svc.SignIn(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", user.Email)

	cached, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)

	_, err = svc.SignIn(ctx, "jane@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInAcceptsLegacyPlaintextRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newAccountService(t)

	putList(t, s, store.KeyUsers, []domain.User{{
		Email:    "old@example.com",
		Password: "plain-old-password",
		Savings:  domain.NumericSavings(0),
	}})

	_, err := svc.SignIn(ctx, "old@example.com", "plain-old-password")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "old@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConnectWalletProvisionsSyntheticAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, s := newAccountService(t)

	user, err := svc.ConnectWallet(ctx, "nami")
	require.NoError(t, err)
	require.Equal(t, "nami@wallet.com", user.Email)
	require.Equal(t, domain.AccountMember, user.AccountType)

	// reconnecting reuses the account instead of duplicating it
	again, err := svc.ConnectWallet(ctx, "nami")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
	require.Len(t, getList[domain.User](t, s, store.KeyUsers), 1)
}

func TestConnectWalletRejectsUnavailableWallets(t *testing.T) {
	t.Parallel()
	svc, _ := newAccountService(t)

	_, err := svc.ConnectWallet(context.Background(), "flint")
	require.ErrorIs(t, err, ErrWalletUnavailable)
	_, err = svc.ConnectWallet(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrWalletUnavailable)
}

func TestSignOutClearsSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newAccountService(t)

	_, err := svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	cached, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.Nil(t, cached)
}
