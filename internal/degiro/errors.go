package degiro

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed indicates a login or client-info response that
	// lacked the expected session fields.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrSessionNotOpen indicates a query issued outside an open session.
	ErrSessionNotOpen = errors.New("session not open")

	// ErrNoProductIDs indicates a product-info query with an empty id set.
	ErrNoProductIDs = errors.New("at least one product id is required")
)

// NotFoundError indicates a product-info query that matched none of the
// requested ids. A partial match is not an error; a total miss is.
type NotFoundError struct {
	// IDs is the originally requested id set, in ascending order.
	IDs []int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no products found with ids %v", e.IDs)
}
