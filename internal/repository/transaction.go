// Package repository provides the data access layer for the stockplot store.
package repository

import (
	"time"

	"stockplot/internal/database"
	"stockplot/internal/models"
)

// Limits for list queries.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

func clampLimit(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// TransactionRepository handles transaction database operations.
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Upsert inserts a transaction, ignoring exact duplicates from overlapping
// sync ranges. It reports whether a row was actually inserted.
func (r *TransactionRepository) Upsert(txn *models.Transaction) (bool, error) {
	result, err := r.db.Exec(`
		INSERT OR IGNORE INTO transactions (product_id, quantity, executed_at)
		VALUES (?, ?, ?)
	`, txn.ProductID, txn.Quantity, txn.ExecutedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// List retrieves transactions ordered by execution time, newest first.
func (r *TransactionRepository) List(limit, offset int) ([]*models.Transaction, error) {
	limit, offset = clampLimit(limit, offset)
	return r.queryTransactions(`
		SELECT id, product_id, quantity, executed_at, created_at
		FROM transactions
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
}

// GetByDateRange retrieves transactions executed within [start, end].
func (r *TransactionRepository) GetByDateRange(start, end time.Time) ([]*models.Transaction, error) {
	return r.queryTransactions(`
		SELECT id, product_id, quantity, executed_at, created_at
		FROM transactions
		WHERE executed_at >= ? AND executed_at <= ?
		ORDER BY executed_at ASC, id ASC
	`, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

// GetByProductID retrieves all transactions for one instrument.
func (r *TransactionRepository) GetByProductID(productID int64) ([]*models.Transaction, error) {
	return r.queryTransactions(`
		SELECT id, product_id, quantity, executed_at, created_at
		FROM transactions
		WHERE product_id = ?
		ORDER BY executed_at ASC, id ASC
	`, productID)
}

// Count returns the total number of stored transactions.
func (r *TransactionRepository) Count() (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

func (r *TransactionRepository) queryTransactions(query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		var executedAt string
		if err := rows.Scan(&txn.ID, &txn.ProductID, &txn.Quantity, &executedAt, &txn.CreatedAt); err != nil {
			return nil, err
		}
		txn.ExecutedAt = parseDate(executedAt)
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// parseDate handles the date formats returned by SQLite.
func parseDate(s string) time.Time {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
