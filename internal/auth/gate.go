package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// RequestGate decides, for each inbound request, whether it proceeds to the
// handler and with what identity attached. Every request is evaluated fresh:
// no verification result or approval state is cached across requests.
type RequestGate struct {
	tokens         *TokenManager
	directory      repository.AccountRepository
	logger         *zap.Logger
	publicPrefixes []string
}

// NewRequestGate constructs the gate middleware.
func NewRequestGate(tokens *TokenManager, directory repository.AccountRepository, logger *zap.Logger, publicPrefixes []string) *RequestGate {
	return &RequestGate{
		tokens:         tokens,
		directory:      directory,
		logger:         logger,
		publicPrefixes: publicPrefixes,
	}
}

// Handle runs the per-request admission pipeline:
// allowlist skip, bearer extraction, token verification, account lookup,
// approval check, identity binding. Only verification, lookup, and approval
// failures short-circuit; a missing credential admits the request anonymously
// and downstream guards are the enforcement point for those.
func (g *RequestGate) Handle(c *fiber.Ctx) error {
	if g.isPublicPath(c.Path()) {
		return c.Next()
	}

	raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		// Absent or misshapen header: anonymous, not an error.
		return c.Next()
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			return apperrors.NewUnauthorizedCode("TOKEN_EXPIRED", "token expired")
		case errors.Is(err, ErrTokenMalformed), errors.Is(err, ErrTokenBadSignature):
			return apperrors.NewUnauthorizedCode("TOKEN_INVALID", "invalid token")
		default:
			// Not an authentication failure; keep misconfiguration separable
			// from bad tokens for monitoring.
			return apperrors.NewInternalError(err)
		}
	}

	account, err := g.directory.GetByEmail(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorizedCode("USER_NOT_FOUND", "user not found")
		}
		return apperrors.MapError(err)
	}

	if account.ApprovalStatus != domain.ApprovalStatusApproved {
		// A valid token is insufficient while the account is unapproved.
		return apperrors.NewUnauthorizedCode("APPROVAL_PENDING", "pending admin approval")
	}

	if _, bound := IdentityFromContext(c); !bound {
		if g.tokens.MatchesSubject(raw, account.Email) {
			bindIdentity(c, NewIdentity(account))
		} else {
			// The request continues unauthenticated; downstream guards decide.
			g.logger.Warn("token subject does not match resolved account",
				zap.String("subject", claims.Subject),
				zap.String("path", c.Path()))
		}
	}

	return c.Next()
}

func (g *RequestGate) isPublicPath(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the credential from an Authorization header value.
// The second return is false when the header is absent or not Bearer-shaped.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}
