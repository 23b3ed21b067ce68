package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/repository"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// AccountService manages administrative account operations.
type AccountService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// NewAccountService constructs the service.
func NewAccountService(accounts repository.AccountRepository, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{accounts: accounts, dispatcher: dispatcher}
}

// ListByStatus returns accounts filtered by approval status.
func (s *AccountService) ListByStatus(ctx context.Context, status domain.ApprovalStatus, limit, offset int) ([]*domain.Account, error) {
	switch status {
	case domain.ApprovalStatusPending, domain.ApprovalStatusApproved, domain.ApprovalStatusRejected:
	default:
		return nil, apperrors.NewValidationError("unknown approval status", map[string]any{"status": string(status)})
	}
	return s.accounts.ListByStatus(ctx, status, limit, offset)
}

// SetApprovalStatus flips the administrative gate on an account. The change
// takes effect on the account's next request: the gate re-reads approval
// state every time, so there is no staleness window beyond read latency.
func (s *AccountService) SetApprovalStatus(ctx context.Context, id string, status domain.ApprovalStatus) (*domain.Account, error) {
	switch status {
	case domain.ApprovalStatusApproved, domain.ApprovalStatusRejected, domain.ApprovalStatusPending:
	default:
		return nil, apperrors.NewValidationError("unknown approval status", map[string]any{"status": string(status)})
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := account.ApprovalStatus
	if oldStatus == status {
		return account, nil
	}

	if err := s.accounts.UpdateApprovalStatus(ctx, id, status); err != nil {
		return nil, err
	}
	account.ApprovalStatus = status

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAccountApprovalChanged,
			AccountID: account.ID,
			Timestamp: time.Now(),
			Payload: events.AccountApprovalChangedPayload{
				Email:     account.Email,
				OldStatus: oldStatus,
				NewStatus: status,
			},
		})
	}

	return account, nil
}
