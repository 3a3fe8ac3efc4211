package session

import (
	"resumelens/internal/config"

	"golang.org/x/time/rate"
)

// SubmissionGate throttles how often a new analysis may be submitted.
// It uses a token bucket refilled at the configured per-minute rate.
// A disabled gate allows everything.
type SubmissionGate struct {
	limiter *rate.Limiter
	enabled bool
}

// NewSubmissionGate creates a gate from rate limit configuration
func NewSubmissionGate(cfg config.RateLimitConfig) *SubmissionGate {
	if !cfg.Enabled {
		return &SubmissionGate{}
	}

	burst := cfg.BurstCapacity
	if burst < 1 {
		burst = 1
	}

	return &SubmissionGate{
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.SubmitsPerMin)/60.0), burst),
		enabled: true,
	}
}

// Allow reports whether a submission may proceed right now.
// A rejected attempt does not consume a token.
func (g *SubmissionGate) Allow() bool {
	if g == nil || !g.enabled {
		return true
	}
	return g.limiter.Allow()
}
