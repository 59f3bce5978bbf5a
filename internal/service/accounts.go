package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Wallet is one entry in the simulated wallet catalogue.
type Wallet struct {
	ID        string
	Name      string
	Available bool
}

// DefaultWallets is the simulated wallet catalogue. Flint stays listed
// but unavailable so the connect flow has a failure path to exercise.
func DefaultWallets() []Wallet {
	return []Wallet{
		{ID: "nami", Name: "Nami", Available: true},
		{ID: "lace", Name: "Lace", Available: true},
		{ID: "eternl", Name: "Eternl", Available: true},
		{ID: "flint", Name: "Flint", Available: false},
	}
}

// AccountService handles registration, authentication and the cached
// session record.
type AccountService struct {
	Store   store.Store
	Log     *zap.Logger
	Wallets []Wallet
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	FullName    string
	Email       string
	Password    string
	Confirm     string
	Phone       string
	Location    string
	AccountType domain.AccountType
	GroupCode   string
	GroupName   string
	AgreeTerms  bool
}

func (in SignUpInput) validate() error {
	switch {
	case strings.TrimSpace(in.FullName) == "":
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	case !emailPattern.MatchString(in.Email):
		return fmt.Errorf("%w: email address is not valid", ErrInvalidInput)
	case len(in.Password) < 6:
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	case in.Password != in.Confirm:
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	case len(strings.TrimSpace(in.Phone)) < 10:
		return fmt.Errorf("%w: phone number must be at least 10 digits", ErrInvalidInput)
	case !in.AgreeTerms:
		return fmt.Errorf("%w: terms must be accepted", ErrInvalidInput)
	case in.AccountType != domain.AccountMember && in.AccountType != domain.AccountAdmin:
		return fmt.Errorf("%w: account type must be member or admin", ErrInvalidInput)
	case in.AccountType == domain.AccountAdmin && strings.TrimSpace(in.GroupName) == "":
		return fmt.Errorf("%w: admins must name their group", ErrInvalidInput)
	}
	return nil
}

// SignUp registers a new account. Members additionally file a
// membership request for admin approval; admins skip the roster
// entirely. The new account becomes the cached session user.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:          domain.NewID("user"),
		FullName:    in.FullName,
		Email:       in.Email,
		Password:    string(hash),
		Phone:       in.Phone,
		Location:    in.Location,
		AccountType: in.AccountType,
		GroupCode:   in.GroupCode,
		GroupName:   in.GroupName,
		Savings:     domain.NumericSavings(0),
		CreatedAt:   domain.Now(),
	}

	_, err = store.UpdateList(ctx, s.Store, s.Log, store.KeyUsers, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if u.Email == in.Email {
				return nil, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return domain.User{}, err
	}

	if in.AccountType == domain.AccountMember {
		req := domain.MembershipRequest{
			ID:          domain.NewID("req"),
			Name:        in.FullName,
			Email:       in.Email,
			Phone:       in.Phone,
			RequestDate: domain.Now(),
			GroupCode:   in.GroupCode,
		}
		if _, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyPendingRequests, func(list []domain.MembershipRequest) ([]domain.MembershipRequest, error) {
			return append(list, req), nil
		}); err != nil {
			return user, fmt.Errorf("account %s created but membership request failed: %w", in.Email, err)
		}
	}

	if err := s.setSession(ctx, &user); err != nil {
		s.Log.Warn("session not cached after sign-up",
			zap.String("email", in.Email), zap.Error(err))
	}

	s.Log.Info("account created",
		zap.String("email", in.Email),
		zap.String("type", string(in.AccountType)))
	return user, nil
}

// SignIn authenticates an email and password and caches the session
// user. Seeded and registered accounts carry bcrypt hashes; records
// imported from older exports may still hold plaintext, which is
// accepted by direct comparison.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	users, _, err := store.ReadList[domain.User](ctx, s.Store, s.Log, store.KeyUsers)
	if err != nil {
		return domain.User{}, err
	}
	for i := range users {
		u := users[i]
		if u.Email != email {
			continue
		}
		if !passwordMatches(u.Password, password) {
			return domain.User{}, ErrInvalidCredentials
		}
		if err := s.setSession(ctx, &u); err != nil {
			s.Log.Warn("session not cached after sign-in",
				zap.String("email", email), zap.Error(err))
		}
		return u, nil
	}
	return domain.User{}, ErrInvalidCredentials
}

func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}

// ConnectWallet signs in through a simulated wallet. An available
// wallet yields a synthetic member account keyed <wallet>@wallet.com,
// created on first connect and reused after.
func (s *AccountService) ConnectWallet(ctx context.Context, walletID string) (domain.User, error) {
	var wallet *Wallet
	catalogue := s.Wallets
	if catalogue == nil {
		catalogue = DefaultWallets()
	}
	for i := range catalogue {
		if catalogue[i].ID == walletID {
			wallet = &catalogue[i]
			break
		}
	}
	if wallet == nil || !wallet.Available {
		return domain.User{}, fmt.Errorf("%w: %s", ErrWalletUnavailable, walletID)
	}

	email := wallet.ID + "@wallet.com"
	var user domain.User
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyUsers, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if u.Email == email {
				user = u
				return nil, nil
			}
		}
		user = domain.User{
			ID:          domain.NewID("user"),
			FullName:    wallet.Name + " Wallet",
			Email:       email,
			AccountType: domain.AccountMember,
			Savings:     domain.NumericSavings(0),
			CreatedAt:   domain.Now(),
		}
		return append(users, user), nil
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.setSession(ctx, &user); err != nil {
		s.Log.Warn("session not cached after wallet connect",
			zap.String("email", email), zap.Error(err))
	}
	return user, nil
}

// CurrentUser returns the cached session user, or nil when signed out.
func (s *AccountService) CurrentUser(ctx context.Context) (*domain.User, error) {
	u, _, err := store.ReadRecord[domain.User](ctx, s.Store, s.Log, store.KeyCurrentUser)
	return u, err
}

// SignOut clears the cached session user.
func (s *AccountService) SignOut(ctx context.Context) error {
	_, version, err := store.ReadRecord[domain.User](ctx, s.Store, s.Log, store.KeyCurrentUser)
	if err != nil {
		return err
	}
	return store.WriteRecord[domain.User](ctx, s.Store, store.KeyCurrentUser, nil, version)
}

func (s *AccountService) setSession(ctx context.Context, u *domain.User) error {
	_, version, err := store.ReadRecord[domain.User](ctx, s.Store, s.Log, store.KeyCurrentUser)
	if err != nil {
		return err
	}
	return store.WriteRecord(ctx, s.Store, store.KeyCurrentUser, u, version)
}
