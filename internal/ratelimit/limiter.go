package ratelimit

import (
	"context"
	"time"

	"github.com/Joaovenera/wms-sub000/internal/validation"
)

const (
	// DefaultBaseLimit is the per-window request budget before the
	// complexity discount
	DefaultBaseLimit = 10

	// DefaultWindow is the sliding window length
	DefaultWindow = time.Minute

	// scoreMultiplier scales the effective limit into the
	// complexity-weighted score budget
	scoreMultiplier = 10
)

// Decision is the limiter's verdict for one request
type Decision struct {
	Allowed        bool          `json:"allowed"`
	Complexity     int           `json:"complexity"`
	EffectiveLimit int           `json:"effectiveLimit"`
	Remaining      int           `json:"remaining"`
	RetryAfter     time.Duration `json:"-"`
}

// Limiter budgets requests per (client IP, user) identity, charging
// more for complex requests. Rejection never resets the window; only
// expiry does.
type Limiter interface {
	// Allow charges the request against the identity's window and
	// reports whether it may proceed
	Allow(ctx context.Context, clientIP, userID string, request *validation.Request) (Decision, error)
}

// Complexity scores how expensive a request is to validate. Minimum 1.
func Complexity(request *validation.Request) int {
	complexity := 1
	complexity += len(request.Products) / 5
	complexity += int(request.TotalQuantity()) / 50
	complexity += request.Constraints.FieldCount()
	if distinct := request.DistinctPackagingTypes(); distinct > 1 {
		complexity += distinct - 1
	}
	if complexity < 1 {
		complexity = 1
	}
	return complexity
}

// EffectiveLimit discounts the base budget by half the complexity,
// never below one request per window.
func EffectiveLimit(baseLimit, complexity int) int {
	limit := baseLimit - complexity/2
	if limit < 1 {
		limit = 1
	}
	return limit
}

func identityKey(clientIP, userID string) string {
	return clientIP + ":" + userID
}
