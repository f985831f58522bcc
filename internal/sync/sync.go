// Package sync pulls trading history from the broker into the local store.
package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stockplot/internal/degiro"
	"stockplot/internal/models"
	"stockplot/internal/repository"
)

// Service orchestrates one broker sync: a scoped session pulling the
// transaction history and the metadata of every traded instrument.
type Service struct {
	factory     *degiro.Factory
	txnRepo     *repository.TransactionRepository
	productRepo *repository.ProductRepository
	historyRepo *repository.SyncHistoryRepository
	log         *logrus.Logger
}

// NewService creates a new sync service.
func NewService(
	factory *degiro.Factory,
	txnRepo *repository.TransactionRepository,
	productRepo *repository.ProductRepository,
	historyRepo *repository.SyncHistoryRepository,
	log *logrus.Logger,
) *Service {
	return &Service{
		factory:     factory,
		txnRepo:     txnRepo,
		productRepo: productRepo,
		historyRepo: historyRepo,
		log:         log,
	}
}

// Result contains the outcome of a sync run.
type Result struct {
	RunID              string
	TransactionsSynced int
	ProductsSynced     int
}

// Run performs one sync for the given credentials and date range. The broker
// session is opened, drained, and closed within this call; nothing about the
// session outlives it.
func (s *Service) Run(username, password string, start, end time.Time) (*Result, error) {
	runID := uuid.NewString()
	historyID, err := s.historyRepo.Start(runID)
	if err != nil {
		return nil, fmt.Errorf("starting sync history: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id": runID,
		"from":   start.Format("2006-01-02"),
		"to":     end.Format("2006-01-02"),
	}).Info("starting broker sync")

	result := &Result{RunID: runID}
	client := s.factory.Create(username, password)
	err = client.WithSession(func(c *degiro.Client) error {
		return s.pull(c, start, end, result)
	})
	if err != nil {
		s.failSync(historyID, err)
		return nil, fmt.Errorf("sync run %s: %w", runID, err)
	}

	if err := s.historyRepo.Complete(historyID, result.TransactionsSynced, result.ProductsSynced); err != nil {
		return nil, fmt.Errorf("completing sync history: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id":       runID,
		"transactions": result.TransactionsSynced,
		"products":     result.ProductsSynced,
	}).Info("broker sync complete")

	return result, nil
}

// pull drains one open session into the store.
func (s *Service) pull(c *degiro.Client, start, end time.Time, result *Result) error {
	transactions, err := c.GetTransactions(start, end)
	if err != nil {
		return err
	}

	productIDs := make(map[int64]struct{}, len(transactions))
	for _, txn := range transactions {
		inserted, err := s.txnRepo.Upsert(&models.Transaction{
			ProductID:  txn.ProductID,
			Quantity:   txn.Quantity,
			ExecutedAt: txn.Date,
		})
		if err != nil {
			return fmt.Errorf("storing transaction: %w", err)
		}
		if inserted {
			result.TransactionsSynced++
		}
		productIDs[txn.ProductID] = struct{}{}
	}

	if len(productIDs) == 0 {
		s.log.Info("no transactions in range, skipping product lookup")
		return nil
	}

	ids := make([]int64, 0, len(productIDs))
	for id := range productIDs {
		ids = append(ids, id)
	}

	products, err := c.GetProductInfo(ids)
	if err != nil {
		return err
	}
	for _, product := range products {
		if err := s.productRepo.Upsert(&models.Product{
			ID:       product.ID,
			ISIN:     product.ISIN,
			Name:     product.Name,
			Symbol:   product.Symbol,
			Currency: product.Currency.String(),
		}); err != nil {
			return fmt.Errorf("storing product: %w", err)
		}
		result.ProductsSynced++
	}

	return nil
}

func (s *Service) failSync(historyID int64, cause error) {
	if err := s.historyRepo.Fail(historyID, cause.Error()); err != nil {
		s.log.WithError(err).Warn("failed to record sync failure")
	}
}
