package domain

import "time"

// ApprovalStatus tracks the administrative gate on an account.
// Only APPROVED accounts may use the API, regardless of token validity.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// Role enumerates account roles.
type Role string

const (
	RoleCustomer        Role = "CUSTOMER"
	RoleRestaurantOwner Role = "RESTAURANT_OWNER"
	RoleAdmin           Role = "ADMIN"
)

// Authorities returns the permission tags granted by the role. Downstream
// authorization checks tags, not roles.
func (r Role) Authorities() []string {
	switch r {
	case RoleCustomer:
		return []string{"orders:place", "profile:read"}
	case RoleRestaurantOwner:
		return []string{"restaurant:manage", "profile:read"}
	case RoleAdmin:
		return []string{"accounts:read", "accounts:approve", "profile:read"}
	default:
		return nil
	}
}

// Account is the domain model for registered users of the platform.
type Account struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
