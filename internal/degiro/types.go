package degiro

import (
	"time"

	"stockplot/internal/currency"
)

// Transaction is a single executed trade. Quantity is signed: positive for a
// buy, negative for a sell.
type Transaction struct {
	ProductID int64
	Quantity  int64
	// Date is the execution instant, normalized to UTC.
	Date time.Time
}

// ProductInfo describes a tradable instrument.
type ProductInfo struct {
	ID       int64
	ISIN     string
	Name     string
	Symbol   string
	Currency currency.Currency
}

// Wire shapes for the trading API. Fields the clients never read are left out;
// the decoder ignores them.

type loginResponse struct {
	SessionID string `json:"sessionId"`
}

type clientInfoResponse struct {
	Data struct {
		// Pointer so a present zero account is distinguishable from a
		// missing field.
		IntAccount *int64 `json:"intAccount"`
	} `json:"data"`
}

type transactionsResponse struct {
	Data []rawTransaction `json:"data"`
}

type rawTransaction struct {
	ProductID int64  `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Date      string `json:"date"`
}

type productInfoResponse struct {
	Data map[string]rawProduct `json:"data"`
}

type rawProduct struct {
	ID       string `json:"id"`
	ISIN     string `json:"isin"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}
