package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tmarkov/subledger/internal/models"
)

// TransactionRepository defines the interface for ledger entry data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id int64) (*models.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Transaction, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]*models.Transaction, error)
	FindRefundEligible(ctx context.Context, ownerID int64, cutoff time.Time) ([]*models.Transaction, error)
	FindPendingRefunds(ctx context.Context) ([]*models.Transaction, error)
	FindQueued(ctx context.Context) ([]*models.Transaction, error)
	MarkRefundAttempted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type transactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a TransactionRepository over the given
// querier (pool or open transaction).
func NewTransactionRepository(q Querier) TransactionRepository {
	return &transactionRepository{q: q}
}

const transactionColumns = `
	id, owner_id, hidden_owner_id, product_id, promo_name,
	action, status, occurred_at, ledger_delta_cents, refund_cents, refund_attempted
`

// Create inserts a ledger entry and assigns its monotonic id.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (
			owner_id, hidden_owner_id, product_id, promo_name,
			action, status, occurred_at, ledger_delta_cents, refund_cents, refund_attempted
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		txn.OwnerID,
		nullInt64(txn.HiddenOwnerID),
		txn.ProductID,
		nullString(txn.PromoName),
		txn.Action,
		txn.Status,
		txn.OccurredAt,
		txn.LedgerDelta,
		nullInt64(txn.RefundCents),
		txn.RefundAttempted,
	).Scan(&txn.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a ledger entry by id.
func (r *transactionRepository) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate retrieves a ledger entry by id and locks the row for the
// duration of the enclosing transaction. Flows use it to serialize
// check-and-set on the refund guard.
func (r *transactionRepository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// FindByOwner returns a user's visible transaction history. Sentinel-owned
// entries are excluded structurally: the sentinel id never equals a real
// owner id, and a zero owner argument matches nothing.
func (r *transactionRepository) FindByOwner(ctx context.Context, ownerID int64) ([]*models.Transaction, error) {
	if ownerID == models.SystemOwnerID {
		return nil, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		ORDER BY id
	`
	return r.scanMany(ctx, query, ownerID)
}

// FindRefundEligible returns the owner's successful charges inside the refund
// window that have not yet had a refund attempted.
func (r *transactionRepository) FindRefundEligible(ctx context.Context, ownerID int64, cutoff time.Time) ([]*models.Transaction, error) {
	if ownerID == models.SystemOwnerID {
		return nil, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		  AND action = $2
		  AND status = $3
		  AND ledger_delta_cents > 0
		  AND occurred_at >= $4
		  AND refund_attempted = FALSE
		ORDER BY id
	`
	return r.scanMany(ctx, query, ownerID, models.ActionNewSubscription, models.StatusSuccess, cutoff)
}

// FindPendingRefunds returns refund requests awaiting adjudication.
func (r *transactionRepository) FindPendingRefunds(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE action = $1
		  AND status = $2
		  AND refund_attempted = FALSE
		ORDER BY id
	`
	return r.scanMany(ctx, query, models.ActionRefundRequest, models.StatusPending)
}

// FindQueued returns the deferred-settlement queue: every entry owned by the
// system sentinel.
func (r *transactionRepository) FindQueued(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE owner_id = $1
		ORDER BY id
	`
	return r.scanMany(ctx, query, models.SystemOwnerID)
}

// MarkRefundAttempted sets the refund guard on an entry. The update is a
// compare-and-set: it only matches rows where the guard is still clear, so a
// concurrent second attempt observes ErrAlreadyAttempted.
func (r *transactionRepository) MarkRefundAttempted(ctx context.Context, id int64) error {
	query := `
		UPDATE transactions
		SET refund_attempted = TRUE
		WHERE id = $1 AND refund_attempted = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark refund attempted: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrAlreadyAttempted
	}

	return nil
}

// Delete removes a ledger entry. Only the reconciler uses it, to swap a
// settled queue entry for its attributed replacement.
func (r *transactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *transactionRepository) scanOne(row *sql.Row) (*models.Transaction, error) {
	var (
		txn         models.Transaction
		hiddenOwner sql.NullInt64
		promoName   sql.NullString
		refundCents sql.NullInt64
	)

	err := row.Scan(
		&txn.ID,
		&txn.OwnerID,
		&hiddenOwner,
		&txn.ProductID,
		&promoName,
		&txn.Action,
		&txn.Status,
		&txn.OccurredAt,
		&txn.LedgerDelta,
		&refundCents,
		&txn.RefundAttempted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if hiddenOwner.Valid {
		txn.HiddenOwnerID = &hiddenOwner.Int64
	}
	if promoName.Valid {
		txn.PromoName = &promoName.String
	}
	if refundCents.Valid {
		txn.RefundCents = &refundCents.Int64
	}

	return &txn, nil
}

func (r *transactionRepository) scanMany(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // close error is not actionable after reads

	var txns []*models.Transaction
	for rows.Next() {
		var (
			txn         models.Transaction
			hiddenOwner sql.NullInt64
			promoName   sql.NullString
			refundCents sql.NullInt64
		)

		err := rows.Scan(
			&txn.ID,
			&txn.OwnerID,
			&hiddenOwner,
			&txn.ProductID,
			&promoName,
			&txn.Action,
			&txn.Status,
			&txn.OccurredAt,
			&txn.LedgerDelta,
			&refundCents,
			&txn.RefundAttempted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		if hiddenOwner.Valid {
			txn.HiddenOwnerID = &hiddenOwner.Int64
		}
		if promoName.Valid {
			txn.PromoName = &promoName.String
		}
		if refundCents.Valid {
			txn.RefundCents = &refundCents.Int64
		}

		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
