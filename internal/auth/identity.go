package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the per-request authenticated principal. It is bound at most
// once per request by the gate and discarded when the request ends.
type Identity struct {
	Subject     string
	Account     *domain.Account
	authorities map[string]struct{}
}

// NewIdentity binds a subject to the authority tags derived from the account role.
func NewIdentity(account *domain.Account) *Identity {
	tags := account.Role.Authorities()
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return &Identity{Subject: account.Email, Account: account, authorities: set}
}

// HasAuthority reports whether the identity carries the permission tag.
func (i *Identity) HasAuthority(tag string) bool {
	if i == nil {
		return false
	}
	_, ok := i.authorities[tag]
	return ok
}

// Authorities returns the granted permission tags.
func (i *Identity) Authorities() []string {
	if i == nil {
		return nil
	}
	out := make([]string, 0, len(i.authorities))
	for tag := range i.authorities {
		out = append(out, tag)
	}
	return out
}

func bindIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromContext retrieves the bound identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
