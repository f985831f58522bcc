package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultTimeout   = 30 * time.Second
)

// Client is the real Transport, backed by resty.
type Client struct {
	client *resty.Client
}

// NewClient creates a Transport that performs requests over the network.
func NewClient() *Client {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// Get performs a GET request.
func (c *Client) Get(url string, opts RequestOptions) (Response, error) {
	return c.do(http.MethodGet, url, opts)
}

// Post performs a POST request.
func (c *Client) Post(url string, opts RequestOptions) (Response, error) {
	return c.do(http.MethodPost, url, opts)
}

func (c *Client) do(method, url string, opts RequestOptions) (Response, error) {
	req := c.client.R()

	if opts.Params != nil {
		req.SetQueryParams(opts.Params)
	}
	if opts.Headers != nil {
		req.SetHeaders(opts.Headers)
	}
	if opts.JSON != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(opts.JSON)
	} else if opts.Body != "" {
		req.SetBody(opts.Body)
	}

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = req.Get(url)
	case http.MethodPost:
		resp, err = req.Post(url)
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	return &restyResponse{resp: resp}, nil
}

// restyResponse adapts a resty response to the Response interface.
type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int {
	return r.resp.StatusCode()
}

func (r *restyResponse) JSON(v any) error {
	if err := json.Unmarshal(r.resp.Body(), v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
