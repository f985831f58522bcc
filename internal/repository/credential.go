package repository

import (
	"database/sql"
	"time"

	"stockplot/internal/database"
	"stockplot/internal/models"
)

// CredentialRepository handles encrypted broker credential storage.
type CredentialRepository struct {
	db *database.DB
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save stores or replaces the credential for a username.
func (r *CredentialRepository) Save(cred *models.Credential) error {
	_, err := r.db.Exec(`
		INSERT INTO credentials (username, password_ciphertext, password_nonce, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			password_ciphertext = excluded.password_ciphertext,
			password_nonce = excluded.password_nonce,
			updated_at = excluded.updated_at
	`, cred.Username, cred.PasswordCiphertext, cred.PasswordNonce, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetByUsername retrieves a stored credential. Returns nil when unknown.
func (r *CredentialRepository) GetByUsername(username string) (*models.Credential, error) {
	row := r.db.QueryRow(`
		SELECT id, username, password_ciphertext, password_nonce, created_at, updated_at
		FROM credentials
		WHERE username = ?
	`, username)

	cred := &models.Credential{}
	var createdAt, updatedAt string
	err := row.Scan(&cred.ID, &cred.Username, &cred.PasswordCiphertext, &cred.PasswordNonce, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cred.CreatedAt = parseDate(createdAt)
	cred.UpdatedAt = parseDate(updatedAt)
	return cred, nil
}

// Delete removes a stored credential.
func (r *CredentialRepository) Delete(username string) error {
	_, err := r.db.Exec(`DELETE FROM credentials WHERE username = ?`, username)
	return err
}
