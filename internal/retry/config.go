// Package retry drives a model fallback chain with per-model retries and
// exponential backoff.
package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/spetersoncode/gengate"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxRetries is the default per-model retry budget (default: 2).
	// A budget of r allows r+1 attempts per model.
	MaxRetries int

	// InitialDelay is the base delay before the first retry (default: 1s).
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries (default: 10s).
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier (default: 2.0).
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd (default: 0).
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64
}

// DefaultConfig returns the default retry configuration.
// - 2 retries per model
// - 1 second initial delay
// - 10 second max delay
// - 2x exponential multiplier
// - no jitter
func DefaultConfig() Config {
	return Config{
		MaxRetries:   gengate.DefaultRetries,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter)
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	// Apply jitter: random value in range [-jitter, +jitter]
	if c.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*c.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}
