package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/domain"
	"github.com/Chiki-tella/safesave/internal/store"
)

// MemberService handles admission: pending membership requests and the
// approved roster.
type MemberService struct {
	Store store.Store
	Log   *zap.Logger
}

// Requests returns the pending membership requests.
func (s *MemberService) Requests(ctx context.Context) ([]domain.MembershipRequest, error) {
	list, _, err := store.ReadList[domain.MembershipRequest](ctx, s.Store, s.Log, store.KeyPendingRequests)
	return list, err
}

// Approve admits a pending request into the roster: the request is
// removed and an approved member with zero savings is appended, joined
// as of now. The two slots are written independently; a failure after
// the removal leaves the request gone without a roster entry, which
// the repair pass reports.
func (s *MemberService) Approve(ctx context.Context, requestID string) (domain.ApprovedMember, error) {
	var req domain.MembershipRequest
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyPendingRequests, func(list []domain.MembershipRequest) ([]domain.MembershipRequest, error) {
		for i := range list {
			if list[i].ID != requestID {
				continue
			}
			req = list[i]
			return append(list[:i], list[i+1:]...), nil
		}
		return nil, fmt.Errorf("%w: membership request %s", ErrNotFound, requestID)
	})
	if err != nil {
		return domain.ApprovedMember{}, err
	}

	member := domain.ApprovedMember{
		ID:           domain.NewID("member"),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		TotalSavings: 0,
		Savings:      domain.DepositList{},
		JoinedAt:     domain.Now(),
	}
	_, err = store.UpdateList(ctx, s.Store, s.Log, store.KeyApprovedMembers, func(members []domain.ApprovedMember) ([]domain.ApprovedMember, error) {
		return append(members, member), nil
	})
	if err != nil {
		return domain.ApprovedMember{}, fmt.Errorf("request %s removed but roster append failed: %w", requestID, err)
	}

	s.Log.Info("member approved",
		zap.String("request", requestID),
		zap.String("email", req.Email))
	return member, nil
}

// Reject drops a pending membership request.
func (s *MemberService) Reject(ctx context.Context, requestID string) error {
	_, err := store.UpdateList(ctx, s.Store, s.Log, store.KeyPendingRequests, func(list []domain.MembershipRequest) ([]domain.MembershipRequest, error) {
		for i := range list {
			if list[i].ID == requestID {
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: membership request %s", ErrNotFound, requestID)
	})
	return err
}

// Roster returns the approved members as stored, without savings
// normalization.
func (s *MemberService) Roster(ctx context.Context) ([]domain.ApprovedMember, error) {
	list, _, err := store.ReadList[domain.ApprovedMember](ctx, s.Store, s.Log, store.KeyApprovedMembers)
	return list, err
}
