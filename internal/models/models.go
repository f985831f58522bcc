// Package models contains the data models stored by the application.
package models

import "time"

// Transaction is a stored trade pulled from the broker.
type Transaction struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	// ExecutedAt is the trade instant in UTC.
	ExecutedAt time.Time `json:"executed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Product is stored instrument metadata, keyed by the broker's product id.
type Product struct {
	ID        int64     `json:"id"`
	ISIN      string    `json:"isin"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sync statuses.
const (
	SyncStatusStarted = "started"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// SyncHistory records one sync run against the broker.
type SyncHistory struct {
	ID                 int64      `json:"id"`
	RunID              string     `json:"run_id"`
	Status             string     `json:"status"`
	TransactionsSynced int        `json:"transactions_synced"`
	ProductsSynced     int        `json:"products_synced"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	DurationMs         int64      `json:"duration_ms"`
}

// Credential is a stored broker login. The password is encrypted at rest;
// only the nonce and ciphertext are persisted.
type Credential struct {
	ID                 int64
	Username           string
	PasswordCiphertext []byte
	PasswordNonce      []byte
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
