package repository

import (
	"database/sql"
	"time"

	"stockplot/internal/database"
	"stockplot/internal/models"
)

// SyncHistoryRepository handles sync history database operations.
type SyncHistoryRepository struct {
	db *database.DB
}

// NewSyncHistoryRepository creates a new SyncHistoryRepository.
func NewSyncHistoryRepository(db *database.DB) *SyncHistoryRepository {
	return &SyncHistoryRepository{db: db}
}

// Start creates a new sync history entry with status "started" and returns its ID.
func (r *SyncHistoryRepository) Start(runID string) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO sync_history (run_id, status, started_at)
		VALUES (?, ?, ?)
	`, runID, models.SyncStatusStarted, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Complete marks a sync as successful.
func (r *SyncHistoryRepository) Complete(id int64, transactionsSynced, productsSynced int) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		UPDATE sync_history
		SET status = ?, transactions_synced = ?, products_synced = ?, completed_at = ?,
		    duration_ms = CAST((julianday(?) - julianday(started_at)) * 86400000 AS INTEGER)
		WHERE id = ?
	`, models.SyncStatusSuccess, transactionsSynced, productsSynced,
		now.Format(time.RFC3339), now.Format(time.RFC3339), id)
	return err
}

// Fail marks a sync as failed with an error message.
func (r *SyncHistoryRepository) Fail(id int64, errorMsg string) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		UPDATE sync_history
		SET status = ?, error_message = ?, completed_at = ?,
		    duration_ms = CAST((julianday(?) - julianday(started_at)) * 86400000 AS INTEGER)
		WHERE id = ?
	`, models.SyncStatusError, errorMsg, now.Format(time.RFC3339), now.Format(time.RFC3339), id)
	return err
}

// GetByID retrieves a sync history entry by ID. Returns nil when unknown.
func (r *SyncHistoryRepository) GetByID(id int64) (*models.SyncHistory, error) {
	row := r.db.QueryRow(`
		SELECT id, run_id, status, transactions_synced, products_synced, error_message,
		       started_at, completed_at, duration_ms
		FROM sync_history
		WHERE id = ?
	`, id)
	return scanSyncHistory(row)
}

// List retrieves sync history entries, newest first.
func (r *SyncHistoryRepository) List(limit, offset int) ([]*models.SyncHistory, error) {
	limit, offset = clampLimit(limit, offset)
	rows, err := r.db.Query(`
		SELECT id, run_id, status, transactions_synced, products_synced, error_message,
		       started_at, completed_at, duration_ms
		FROM sync_history
		ORDER BY started_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.SyncHistory
	for rows.Next() {
		entry, err := scanSyncHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyncHistory(row rowScanner) (*models.SyncHistory, error) {
	entry := &models.SyncHistory{}
	var errorMsg sql.NullString
	var startedAt string
	var completedAt sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.Status,
		&entry.TransactionsSynced,
		&entry.ProductsSynced,
		&errorMsg,
		&startedAt,
		&completedAt,
		&entry.DurationMs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if errorMsg.Valid {
		entry.ErrorMessage = errorMsg.String
	}
	entry.StartedAt = parseDate(startedAt)
	if completedAt.Valid {
		t := parseDate(completedAt.String)
		entry.CompletedAt = &t
	}
	return entry, nil
}
