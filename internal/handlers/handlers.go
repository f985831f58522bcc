// Package handlers provides the read-only JSON API over the synced store.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"stockplot/internal/repository"
	"stockplot/internal/services"
)

// API serves stored transactions, products, and sync history. It never talks
// to the broker; syncing is the CLI's job.
type API struct {
	txnRepo     *repository.TransactionRepository
	productRepo *repository.ProductRepository
	historyRepo *repository.SyncHistoryRepository
	positions   *services.PositionService
	log         *logrus.Logger
}

// NewAPI creates a new API handler set.
func NewAPI(
	txnRepo *repository.TransactionRepository,
	productRepo *repository.ProductRepository,
	historyRepo *repository.SyncHistoryRepository,
	positions *services.PositionService,
	log *logrus.Logger,
) *API {
	return &API{
		txnRepo:     txnRepo,
		productRepo: productRepo,
		historyRepo: historyRepo,
		positions:   positions,
		log:         log,
	}
}

// Routes registers the API routes on a chi router.
func (a *API) Routes(r chi.Router) {
	r.Get("/api/transactions", a.ListTransactions)
	r.Get("/api/products", a.ListProducts)
	r.Get("/api/products/{id}", a.GetProduct)
	r.Get("/api/products/{id}/history", a.GetPositionHistory)
	r.Get("/api/positions", a.ListPositions)
	r.Get("/api/syncs", a.ListSyncs)
}

// ListTransactions returns stored transactions, optionally filtered by a
// from/to date range (YYYY-MM-DD).
func (a *API) ListTransactions(w http.ResponseWriter, r *http.Request) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")

	if fromParam != "" || toParam != "" {
		from, err := parseDateParam(fromParam, time.Time{})
		if err != nil {
			a.respondError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		to, err := parseDateParam(toParam, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
		if err != nil {
			a.respondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		transactions, err := a.txnRepo.GetByDateRange(from, to)
		if err != nil {
			a.serverError(w, err)
			return
		}
		a.respondJSON(w, http.StatusOK, nonNil(transactions))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	transactions, err := a.txnRepo.List(limit, offset)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, nonNil(transactions))
}

// ListProducts returns all stored instrument metadata.
func (a *API) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.productRepo.List()
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, nonNil(products))
}

// GetProduct returns one product by its broker id.
func (a *API) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := a.productRepo.GetByID(id)
	if err != nil {
		a.serverError(w, err)
		return
	}
	if product == nil {
		a.respondError(w, http.StatusNotFound, "product not found")
		return
	}
	a.respondJSON(w, http.StatusOK, product)
}

// ListPositions returns the net holding of every traded instrument.
func (a *API) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := a.positions.GetPositions()
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, nonNil(positions))
}

// GetPositionHistory returns the running quantity of one instrument after
// each trade, oldest first.
func (a *API) GetPositionHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	points, err := a.positions.GetPositionHistory(id)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, nonNil(points))
}

// ListSyncs returns sync history entries, newest first.
func (a *API) ListSyncs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	entries, err := a.historyRepo.List(limit, offset)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, nonNil(entries))
}

// nonNil keeps empty collections rendering as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func parseDateParam(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", s)
}

func (a *API) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.log.WithError(err).Error("encoding response")
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, message string) {
	a.respondJSON(w, status, map[string]string{"error": message})
}

func (a *API) serverError(w http.ResponseWriter, err error) {
	a.log.WithError(err).Error("request failed")
	a.respondError(w, http.StatusInternalServerError, "internal error")
}
