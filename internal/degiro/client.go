// Package degiro provides a session-scoped client for the DeGiro trading API.
//
// A Client owns one authenticated session: Open logs in and resolves the
// account identity, the query methods require the open session, and Close
// logs out. WithSession wraps the three so the logout is guaranteed on every
// exit path.
package degiro

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"stockplot/internal/currency"
	"stockplot/internal/transport"
)

const (
	loginURL        = "https://trader.degiro.nl/login/secure/login"
	clientInfoURL   = "https://trader.degiro.nl/pa/secure/client"
	logoutURL       = "https://trader.degiro.nl/trading/secure/logout"
	transactionsURL = "https://trader.degiro.nl/reporting/secure/v4/transactions"
	productInfoURL  = "https://trader.degiro.nl/product_search/secure/v5/products/info"

	// DeGiro expects DD/MM/YYYY date parameters.
	dateParamLayout = "02/01/2006"
)

// Client is a client for one DeGiro account. It is not safe for concurrent
// use and must not be reused after Close.
type Client struct {
	username  string
	password  string
	transport transport.Transport

	sessionID string
	accountID int64
	open      bool
}

// NewClient creates an unopened client bound to the given transport.
func NewClient(username, password string, tr transport.Transport) *Client {
	return &Client{username: username, password: password, transport: tr}
}

// Open authenticates and resolves the account id. Every successful Open must
// be paired with exactly one Close; WithSession does the pairing for you.
func (c *Client) Open() error {
	if err := c.login(); err != nil {
		return err
	}
	if err := c.fetchClientInfo(); err != nil {
		return err
	}
	c.open = true
	return nil
}

// Close logs out and invalidates the session. The logout response body is
// ignored; only the call matters to the remote side.
func (c *Client) Close() error {
	url := fmt.Sprintf("%s;jsessionid=%s", logoutURL, c.sessionID)
	_, err := c.transport.Get(url, transport.RequestOptions{
		Params: c.sessionParams(),
	})

	c.sessionID = ""
	c.accountID = 0
	c.open = false

	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// WithSession opens a session, runs fn, and closes the session on every exit
// path after a successful Open. A logout failure is joined with fn's error.
func (c *Client) WithSession(fn func(*Client) error) (err error) {
	if err := c.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(c)
}

type loginRequest struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	IsPassCodeReset    bool   `json:"isPassCodeReset"`
	IsRedirectToMobile bool   `json:"isRedirectToMobile"`
}

func (c *Client) login() error {
	resp, err := c.transport.Post(loginURL, transport.RequestOptions{
		JSON: loginRequest{
			Username:           c.username,
			Password:           c.password,
			IsPassCodeReset:    false,
			IsRedirectToMobile: false,
		},
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	var body loginResponse
	if err := resp.JSON(&body); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if body.SessionID == "" {
		return fmt.Errorf("%w: login response is missing sessionId", ErrAuthenticationFailed)
	}

	c.sessionID = body.SessionID
	return nil
}

func (c *Client) fetchClientInfo() error {
	resp, err := c.transport.Get(clientInfoURL, transport.RequestOptions{
		Params: map[string]string{"sessionId": c.sessionID},
	})
	if err != nil {
		return fmt.Errorf("client info: %w", err)
	}

	var body clientInfoResponse
	if err := resp.JSON(&body); err != nil {
		return fmt.Errorf("client info: %w", err)
	}
	if body.Data.IntAccount == nil {
		return fmt.Errorf("%w: client info response is missing intAccount", ErrAuthenticationFailed)
	}

	c.accountID = *body.Data.IntAccount
	return nil
}

// GetTransactions fetches the transactions executed between start and end,
// inclusive. The returned slice preserves the server's ordering; an empty
// reporting period yields an empty slice.
func (c *Client) GetTransactions(start, end time.Time) ([]Transaction, error) {
	if !c.open {
		return nil, fmt.Errorf("transactions: %w", ErrSessionNotOpen)
	}

	params := map[string]string{
		"fromDate":                    start.Format(dateParamLayout),
		"toDate":                      end.Format(dateParamLayout),
		"group_transactions_by_order": "false",
	}
	for k, v := range c.sessionParams() {
		params[k] = v
	}

	resp, err := c.transport.Get(transactionsURL, transport.RequestOptions{Params: params})
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	var body transactionsResponse
	if err := resp.JSON(&body); err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	transactions := make([]Transaction, 0, len(body.Data))
	for _, raw := range body.Data {
		date, err := parseTransactionDate(raw.Date)
		if err != nil {
			return nil, fmt.Errorf("transactions: product %d: %w", raw.ProductID, err)
		}
		transactions = append(transactions, Transaction{
			ProductID: raw.ProductID,
			Quantity:  raw.Quantity,
			Date:      date,
		})
	}
	return transactions, nil
}

// GetProductInfo fetches instrument metadata for the given ids. Requested ids
// absent from the response are dropped silently; if none of them match, the
// call fails with a *NotFoundError naming the requested set.
func (c *Client) GetProductInfo(ids []int64) (map[int64]ProductInfo, error) {
	if !c.open {
		return nil, fmt.Errorf("product info: %w", ErrSessionNotOpen)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("product info: %w", ErrNoProductIDs)
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	body, err := json.Marshal(sorted)
	if err != nil {
		return nil, fmt.Errorf("product info: encoding ids: %w", err)
	}

	resp, err := c.transport.Post(productInfoURL, transport.RequestOptions{
		Headers: map[string]string{"content-type": "application/json"},
		Params:  c.sessionParams(),
		Body:    string(body),
	})
	if err != nil {
		return nil, fmt.Errorf("product info: %w", err)
	}

	var decoded productInfoResponse
	if err := resp.JSON(&decoded); err != nil {
		return nil, fmt.Errorf("product info: %w", err)
	}
	if len(decoded.Data) == 0 {
		return nil, &NotFoundError{IDs: sorted}
	}

	products := make(map[int64]ProductInfo, len(decoded.Data))
	for key, raw := range decoded.Data {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("product info: invalid product key %q: %w", key, err)
		}
		product, err := raw.toProductInfo()
		if err != nil {
			return nil, fmt.Errorf("product info: product %d: %w", id, err)
		}
		products[id] = product
	}
	return products, nil
}

func (r rawProduct) toProductInfo() (ProductInfo, error) {
	id, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil {
		return ProductInfo{}, fmt.Errorf("invalid product id %q: %w", r.ID, err)
	}
	cur, err := currency.Parse(r.Currency)
	if err != nil {
		return ProductInfo{}, err
	}
	return ProductInfo{
		ID:       id,
		ISIN:     r.ISIN,
		Name:     r.Name,
		Symbol:   r.Symbol,
		Currency: cur,
	}, nil
}

// sessionParams returns the account/session query parameters every
// authenticated call carries.
func (c *Client) sessionParams() map[string]string {
	return map[string]string{
		"intAccount": strconv.FormatInt(c.accountID, 10),
		"sessionId":  c.sessionID,
	}
}

// transactionDateLayouts handles the offset both with and without a colon.
var transactionDateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
}

func parseTransactionDate(s string) (time.Time, error) {
	for _, layout := range transactionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid transaction date %q", s)
}
