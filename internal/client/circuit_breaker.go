package client

import (
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"

	"github.com/sony/gobreaker/v2"
)

// AnalysisCircuitBreaker wraps analyze calls with circuit breaker protection.
// A nil breaker means the feature is disabled and calls pass through.
type AnalysisCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*types.FullAnalysisResult]
}

// NewAnalysisCircuitBreaker creates a circuit breaker from configuration.
// Returns nil when the breaker is disabled.
func NewAnalysisCircuitBreaker(cfg *config.CircuitBreakerConfig, logger *errors.Logger) *AnalysisCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "analysis-api",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}

	return &AnalysisCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*types.FullAnalysisResult](settings),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *AnalysisCircuitBreaker) Execute(fn func() (*types.FullAnalysisResult, error)) (*types.FullAnalysisResult, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *AnalysisCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *AnalysisCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}
