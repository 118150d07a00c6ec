package session

import (
	"math"
	"math/rand"
	"time"

	"github.com/stratumforge/sv2wire/internal/protocol/codec"
)

// SecurityMode selects how strictly a connection enforces encryption.
type SecurityMode string

const (
	// SecurityModeDevelopment allows plaintext SV2 framing.
	SecurityModeDevelopment SecurityMode = "development"
	// SecurityModeProduction requires an established noise transport
	// cipher before any frame crosses the wire.
	SecurityModeProduction SecurityMode = "production"
)

// BackoffConfig defines reconnect backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines transport reliability defaults for one connection.
type Config struct {
	SecurityMode   SecurityMode
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	SendQueueWait  time.Duration
	Limits         codec.Limits
	Backoff        BackoffConfig
}

func DefaultConfig() Config {
	return Config{
		SecurityMode:   SecurityModeDevelopment,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    0,
		WriteTimeout:   15 * time.Second,
		SendQueueWait:  50 * time.Millisecond,
		Limits:         codec.DefaultLimits(),
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

// NextBackoffDelay returns the reconnect delay for attempt N (1-based).
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 {
		return cfg.InitialDelay
	}
	if cfg.InitialDelay <= 0 {
		return 0
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = 1.0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay = delay * f
	}
	return time.Duration(delay)
}
