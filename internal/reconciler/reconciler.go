// Package reconciler retries deferred ledger entries against the payment
// provider until they settle.
package reconciler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmarkov/subledger/internal/clock"
	"github.com/tmarkov/subledger/internal/db"
	"github.com/tmarkov/subledger/internal/gateway"
	"github.com/tmarkov/subledger/internal/models"
	"github.com/tmarkov/subledger/internal/repository"
)

// Reconciler is the background settlement loop. It owns no state beyond its
// dependencies; everything durable lives in the ledger.
type Reconciler struct {
	db       *db.DB
	gateway  gateway.Charger
	clock    clock.Clock
	logger   *slog.Logger
	done     chan struct{}
	interval time.Duration
}

// New creates a Reconciler scanning the deferred queue every interval.
func New(database *db.DB, gw gateway.Charger, clk clock.Clock, logger *slog.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		db:       database,
		gateway:  gw,
		clock:    clk,
		logger:   logger,
		done:     make(chan struct{}),
		interval: interval,
	}
}

// Run executes reconciliation passes until ctx is canceled. A pass in flight
// finishes before Run returns, so shutdown never leaves a half-applied pass.
// Callers that need to outlive Run block on Wait.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.done)

	r.logger.Info("reconciler started", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if err := r.Reconcile(ctx); err != nil {
				// A failed pass is not fatal; queued entries are
				// picked up again on the next tick.
				r.logger.Error("reconciliation pass failed", "error", err)
			}
		}
	}
}

// Wait blocks until Run has returned. Shutdown cancels Run's context and then
// waits here so the process never exits between a provider charge and its
// settlement commit.
func (r *Reconciler) Wait() {
	<-r.done
}

// settlement pairs a queued entry with the successful provider outcome that
// resolves it.
type settlement struct {
	queued  *models.Transaction
	outcome gateway.Outcome
}

// Reconcile runs one pass: charge every queued entry, then commit all
// resulting settlements in a single database transaction. Entries whose
// charge failed are left untouched, amounts included, and retried next pass.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	txnRepo := repository.NewTransactionRepository(r.db)

	queued, err := txnRepo.FindQueued(ctx)
	if err != nil {
		return fmt.Errorf("failed to read deferred queue: %w", err)
	}
	if len(queued) == 0 {
		return nil
	}

	r.logger.Debug("reconciling deferred entries", "count", len(queued))

	settled := r.chargeQueued(ctx, queued)
	if len(settled) == 0 {
		return nil
	}

	if err := r.applySettlements(ctx, settled); err != nil {
		return err
	}

	r.logger.Info("reconciliation pass settled entries",
		"settled", len(settled),
		"remaining", len(queued)-len(settled),
	)

	return nil
}

// chargeQueued attempts a provider charge for every queued entry and returns
// the ones that succeeded. Failed entries are left exactly as they are; the
// pending amount is never overwritten by a failed attempt.
func (r *Reconciler) chargeQueued(ctx context.Context, queued []*models.Transaction) []settlement {
	var settled []settlement
	for _, entry := range queued {
		if entry.HiddenOwnerID == nil {
			r.logger.Warn("queued entry has no masked owner, skipping",
				"transaction_id", entry.ID,
			)
			continue
		}

		outcome := r.gateway.Charge(ctx, entry.SettlementCents())
		if outcome.Status != gateway.StatusSuccess {
			r.logger.Debug("settlement attempt failed, leaving entry queued",
				"transaction_id", entry.ID,
				"status", outcome.Status,
			)
			continue
		}

		settled = append(settled, settlement{queued: entry, outcome: outcome})
	}
	return settled
}

// applySettlements swaps each settled queue entry for a terminal entry
// attributed to its masked owner. All swaps of a pass commit together, so a
// crash mid-pass applies either none of them or all of them.
func (r *Reconciler) applySettlements(ctx context.Context, settled []settlement) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	txnRepo := repository.NewTransactionRepository(tx)

	for _, s := range settled {
		if err := r.settleOne(ctx, txnRepo, s); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlements: %w", err)
	}

	return nil
}

// settleOne inserts the attributed replacement for a queued entry and
// deletes the queued original.
func (r *Reconciler) settleOne(ctx context.Context, txnRepo repository.TransactionRepository, s settlement) error {
	replacement := &models.Transaction{
		OwnerID:    *s.queued.HiddenOwnerID,
		ProductID:  s.queued.ProductID,
		PromoName:  s.queued.PromoName,
		Action:     s.queued.Action,
		Status:     models.StatusSuccess,
		OccurredAt: r.clock.Now(),
	}

	// The settled amount lands in the field matching the action: refunds
	// keep it in the refund column, anything else in the ledger delta.
	if s.queued.Action == models.ActionRefundRequest {
		settledCents := s.outcome.SettledCents
		replacement.RefundCents = &settledCents
	} else {
		replacement.LedgerDelta = s.outcome.SettledCents
	}

	if err := txnRepo.Create(ctx, replacement); err != nil {
		return fmt.Errorf("failed to insert settled entry for %d: %w", s.queued.ID, err)
	}

	if err := txnRepo.Delete(ctx, s.queued.ID); err != nil {
		return fmt.Errorf("failed to delete queued entry %d: %w", s.queued.ID, err)
	}

	return nil
}
