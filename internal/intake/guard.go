// internal/intake/guard.go
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
)

// SubmissionGuard throttles repeat submissions from the same email address
// within a configured window. It runs before any side effect so a throttled
// request writes nothing and sends nothing.
type SubmissionGuard struct {
	client *redis.Client
	window time.Duration
	logger logger.Logger
}

func NewSubmissionGuard(client *redis.Client, window time.Duration, log logger.Logger) *SubmissionGuard {
	return &SubmissionGuard{
		client: client,
		window: window,
		logger: log.WithFields(map[string]interface{}{"component": "submission-guard"}),
	}
}

// Reserve claims the window for the given email. Returns a rate-limited
// StandardError when a submission from the same address is already inside
// the window. Redis outages fail open: the guard is an optimization, not a
// gate the pipeline depends on.
func (g *SubmissionGuard) Reserve(ctx context.Context, email string) error {
	key := "intake:recent:" + strings.ToLower(strings.TrimSpace(email))

	ok, err := g.client.SetNX(ctx, key, 1, g.window).Result()
	if err != nil {
		g.logger.Warn("guard check failed, allowing submission", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if !ok {
		return errors.NewRateLimitedError(fmt.Sprintf("window %s not elapsed for %s", g.window, key))
	}
	return nil
}

// Release frees the window claim, used when the pipeline fails before any
// side effect so the applicant can immediately resubmit a corrected form.
func (g *SubmissionGuard) Release(ctx context.Context, email string) {
	key := "intake:recent:" + strings.ToLower(strings.TrimSpace(email))
	if err := g.client.Del(ctx, key).Err(); err != nil {
		g.logger.Warn("guard release failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
