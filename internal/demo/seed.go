// Package demo provides demo data seeding for demonstration deployments.
package demo

import (
	"time"

	"github.com/sirupsen/logrus"

	"stockplot/internal/database"
	"stockplot/internal/models"
	"stockplot/internal/repository"
)

// Seeder seeds the database with demo data.
type Seeder struct {
	txnRepo     *repository.TransactionRepository
	productRepo *repository.ProductRepository
	log         *logrus.Logger
}

// NewSeeder creates a new demo data seeder.
func NewSeeder(db *database.DB, log *logrus.Logger) *Seeder {
	return &Seeder{
		txnRepo:     repository.NewTransactionRepository(db),
		productRepo: repository.NewProductRepository(db),
		log:         log,
	}
}

// SeedIfEmpty seeds demo data if no transactions are stored yet.
func (s *Seeder) SeedIfEmpty() error {
	count, err := s.txnRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("store already has transactions, skipping demo seed")
		return nil
	}

	s.log.Info("seeding demo data")
	return s.seed()
}

func (s *Seeder) seed() error {
	products := []*models.Product{
		{ID: 96008, ISIN: "US0378331005", Name: "Apple Inc", Symbol: "AAPL", Currency: "USD"},
		{ID: 331868, ISIN: "IE00B4L5Y983", Name: "iShares Core MSCI World UCITS ETF", Symbol: "IWDA", Currency: "EUR"},
		{ID: 714324, ISIN: "DK0062498333", Name: "Novo Nordisk B A/S", Symbol: "NOVO-B", Currency: "DKK"},
	}
	for _, p := range products {
		if err := s.productRepo.Upsert(p); err != nil {
			return err
		}
	}

	trades := []struct {
		productID int64
		quantity  int64
		date      time.Time
	}{
		{96008, 10, date(2024, 1, 15)},
		{96008, 5, date(2024, 3, 2)},
		{96008, -3, date(2024, 6, 20)},
		{331868, 25, date(2024, 1, 15)},
		{331868, 25, date(2024, 4, 15)},
		{331868, 25, date(2024, 7, 15)},
		{714324, 40, date(2024, 2, 1)},
		{714324, -40, date(2024, 9, 10)},
	}
	for _, tr := range trades {
		if _, err := s.txnRepo.Upsert(&models.Transaction{
			ProductID:  tr.productID,
			Quantity:   tr.quantity,
			ExecutedAt: tr.date,
		}); err != nil {
			return err
		}
	}

	s.log.WithFields(logrus.Fields{
		"products":     len(products),
		"transactions": len(trades),
	}).Info("demo data seeded")
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 9, 30, 0, 0, time.UTC)
}
