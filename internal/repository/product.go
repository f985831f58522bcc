package repository

import (
	"database/sql"
	"time"

	"stockplot/internal/database"
	"stockplot/internal/models"
)

// ProductRepository handles product metadata database operations.
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Upsert inserts or refreshes the metadata for one instrument.
func (r *ProductRepository) Upsert(p *models.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products (id, isin, name, symbol, currency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			isin = excluded.isin,
			name = excluded.name,
			symbol = excluded.symbol,
			currency = excluded.currency,
			updated_at = excluded.updated_at
	`, p.ID, p.ISIN, p.Name, p.Symbol, p.Currency, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetByID retrieves a product by its broker id. Returns nil when unknown.
func (r *ProductRepository) GetByID(id int64) (*models.Product, error) {
	row := r.db.QueryRow(`
		SELECT id, isin, name, symbol, currency, updated_at
		FROM products
		WHERE id = ?
	`, id)

	p := &models.Product{}
	var updatedAt string
	err := row.Scan(&p.ID, &p.ISIN, &p.Name, &p.Symbol, &p.Currency, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = parseDate(updatedAt)
	return p, nil
}

// List retrieves all products ordered by symbol.
func (r *ProductRepository) List() ([]*models.Product, error) {
	rows, err := r.db.Query(`
		SELECT id, isin, name, symbol, currency, updated_at
		FROM products
		ORDER BY symbol ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		var updatedAt string
		if err := rows.Scan(&p.ID, &p.ISIN, &p.Name, &p.Symbol, &p.Currency, &updatedAt); err != nil {
			return nil, err
		}
		p.UpdatedAt = parseDate(updatedAt)
		products = append(products, p)
	}
	return products, rows.Err()
}
