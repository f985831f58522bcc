// Package services contains business logic built on the synced store.
package services

import (
	"sort"
	"time"

	"stockplot/internal/models"
	"stockplot/internal/repository"
)

// PositionService derives current and historical holdings from the stored
// transaction history.
type PositionService struct {
	txnRepo     *repository.TransactionRepository
	productRepo *repository.ProductRepository
}

// NewPositionService creates a new PositionService.
func NewPositionService(
	txnRepo *repository.TransactionRepository,
	productRepo *repository.ProductRepository,
) *PositionService {
	return &PositionService{
		txnRepo:     txnRepo,
		productRepo: productRepo,
	}
}

// Position is the net holding of one instrument.
type Position struct {
	ProductID int64 `json:"product_id"`
	// Quantity is the signed sum of all trades; sells are negative.
	Quantity int64 `json:"quantity"`
	// Product is nil when no metadata has been synced for the instrument.
	Product *models.Product `json:"product,omitempty"`
}

// PositionPoint is the running quantity of an instrument after one trade.
type PositionPoint struct {
	Date     time.Time `json:"date"`
	Quantity int64     `json:"quantity"`
}

// allTimeEnd is past every storable transaction timestamp.
var allTimeEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// GetPositions aggregates all stored transactions into net holdings,
// including closed positions with quantity zero. Positions with synced
// metadata come first, ordered by symbol; unknown instruments follow,
// ordered by product id.
func (s *PositionService) GetPositions() ([]*Position, error) {
	transactions, err := s.txnRepo.GetByDateRange(time.Time{}, allTimeEnd)
	if err != nil {
		return nil, err
	}

	quantities := make(map[int64]int64)
	for _, txn := range transactions {
		quantities[txn.ProductID] += txn.Quantity
	}

	positions := make([]*Position, 0, len(quantities))
	for productID, quantity := range quantities {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		positions = append(positions, &Position{
			ProductID: productID,
			Quantity:  quantity,
			Product:   product,
		})
	}

	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		switch {
		case a.Product != nil && b.Product != nil:
			return a.Product.Symbol < b.Product.Symbol
		case a.Product != nil:
			return true
		case b.Product != nil:
			return false
		default:
			return a.ProductID < b.ProductID
		}
	})
	return positions, nil
}

// GetPositionHistory returns the running quantity of one instrument after
// each trade, oldest first. An instrument with no trades yields an empty
// series.
func (s *PositionService) GetPositionHistory(productID int64) ([]PositionPoint, error) {
	transactions, err := s.txnRepo.GetByProductID(productID)
	if err != nil {
		return nil, err
	}

	points := make([]PositionPoint, 0, len(transactions))
	var running int64
	for _, txn := range transactions {
		running += txn.Quantity
		points = append(points, PositionPoint{Date: txn.ExecutedAt, Quantity: running})
	}
	return points, nil
}
