package dto

import (
	"time"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ApprovalStatus string    `json:"approval_status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ApprovalRequest payload for the admin approval endpoint.
type ApprovalRequest struct {
	Status string `json:"status"`
}

// NewAccountResponse maps a domain account to its public view.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		Role:           string(account.Role),
		ApprovalStatus: string(account.ApprovalStatus),
		CreatedAt:      account.CreatedAt,
	}
}
