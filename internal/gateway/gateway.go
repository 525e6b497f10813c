// Package gateway simulates an unreliable external payment provider.
package gateway

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/tmarkov/subledger/internal/config"
)

// Status is the provider's answer to a charge attempt
type Status string

const (
	StatusSuccess           Status = "SUCCESS"
	StatusTimeout           Status = "TIMEOUT"
	StatusInsufficientFunds Status = "INSUFFICIENT_FUNDS"
)

// Outcome is the provider's response to a single charge. SettledCents is zero
// unless the charge succeeded.
type Outcome struct {
	ProviderRef  uuid.UUID
	Status       Status
	SettledCents int64
}

// Charger is the payment provider contract. A charge always returns an
// outcome; it never retries internally and may block for the configured
// network delay. Retry policy belongs entirely to the caller.
type Charger interface {
	Charge(ctx context.Context, amountCents int64) Outcome
}

// Simulator models the provider with fixed failure probabilities and an
// artificial round-trip delay.
type Simulator struct {
	logger      *slog.Logger
	roll        func() float64
	sleep       func(ctx context.Context, d time.Duration)
	timeoutRate float64
	declineRate float64
	delay       time.Duration
}

var _ Charger = (*Simulator)(nil)

// NewSimulator creates a Simulator from configuration.
func NewSimulator(cfg *config.GatewayConfig, logger *slog.Logger) *Simulator {
	return &Simulator{
		logger:      logger,
		roll:        secureRoll,
		sleep:       sleepContext,
		timeoutRate: cfg.TimeoutRate,
		declineRate: cfg.DeclineRate,
		delay:       cfg.Delay,
	}
}

// Charge attempts to move amountCents through the provider. The artificial
// delay is applied before the outcome is decided, so callers observe
// provider-like latency on every attempt, including failures.
func (s *Simulator) Charge(ctx context.Context, amountCents int64) Outcome {
	s.sleep(ctx, s.delay)

	outcome := Outcome{ProviderRef: uuid.New()}

	switch {
	case s.roll() < s.timeoutRate:
		outcome.Status = StatusTimeout
	case s.roll() < s.declineRate:
		outcome.Status = StatusInsufficientFunds
	default:
		outcome.Status = StatusSuccess
		outcome.SettledCents = amountCents
	}

	s.logger.Debug("gateway charge attempted",
		"provider_ref", outcome.ProviderRef,
		"amount_cents", amountCents,
		"status", outcome.Status,
	)

	return outcome
}

// secureRoll returns a uniform value in [0, 1) using crypto/rand. Falls back
// to 1 (no failure injected) if the source errors.
func secureRoll() float64 {
	const precision = 1000000
	n, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		return 1
	}
	return float64(n.Int64()) / precision
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
