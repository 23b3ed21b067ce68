package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/persistence"
)

const loginAttemptKeyPrefix = "login_attempts:"

// LoginLimiter counts failed logins per email in Redis. When Redis is
// unavailable the limiter fails open: login availability wins over strictness.
type LoginLimiter struct {
	redis  *persistence.Redis
	logger *zap.Logger
	limit  int
	window time.Duration
}

// NewLoginLimiter builds the limiter.
func NewLoginLimiter(redis *persistence.Redis, logger *zap.Logger, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{redis: redis, logger: logger, limit: limit, window: window}
}

// Exceeded reports whether the email has hit the failure limit.
func (l *LoginLimiter) Exceeded(ctx context.Context, email string) bool {
	if l == nil || l.redis == nil || l.redis.Client == nil || l.limit <= 0 {
		return false
	}
	count, err := l.redis.Client.Get(ctx, loginAttemptKeyPrefix+email).Int()
	if err != nil {
		return false
	}
	return count >= l.limit
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) {
	if l == nil || l.redis == nil || l.redis.Client == nil {
		return
	}
	key := loginAttemptKeyPrefix + email
	count, err := l.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter increment failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := l.redis.Client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.redis == nil || l.redis.Client == nil {
		return
	}
	if err := l.redis.Client.Del(ctx, loginAttemptKeyPrefix+email).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}
