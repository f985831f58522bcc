// Package transport defines the HTTP boundary consumed by broker clients.
//
// Both the real resty-backed implementation and the expectation-verifying test
// double in transporttest implement Transport, so client code never depends on
// how requests actually reach the network.
package transport

// RequestOptions carries the optional parts of a request. Fields that are
// zero-valued are simply not sent; a verifying transport compares the whole
// struct, so an unset field is as significant as a set one.
type RequestOptions struct {
	// Params are encoded as URL query parameters.
	Params map[string]string

	// Headers are added to the request.
	Headers map[string]string

	// JSON, when non-nil, is marshaled and sent as the request body with a
	// JSON content type.
	JSON any

	// Body, when non-empty, is sent verbatim as the request body. Callers
	// that need a specific content type set it through Headers.
	Body string
}

// Response is the subset of an HTTP response the clients need: a status code
// and a decode-or-fail JSON operation.
type Response interface {
	// StatusCode returns the HTTP status code.
	StatusCode() int

	// JSON decodes the response body into v. It returns an error if the body
	// is not valid JSON.
	JSON(v any) error
}

// Transport performs synchronous HTTP requests.
type Transport interface {
	Get(url string, opts RequestOptions) (Response, error)
	Post(url string, opts RequestOptions) (Response, error)
}
