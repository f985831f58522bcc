package transporttest

import (
	"encoding/json"
	"fmt"
)

// JSONResponse is a canned response whose JSON operation yields Body.
type JSONResponse struct {
	Status int
	Body   any
}

// StatusCode returns the canned status.
func (r *JSONResponse) StatusCode() int {
	return r.Status
}

// JSON re-encodes Body into v, mirroring how a real response body would
// decode.
func (r *JSONResponse) JSON(v any) error {
	raw, err := json.Marshal(r.Body)
	if err != nil {
		return fmt.Errorf("encoding canned body: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// EmptyResponse is a canned response with no JSON body, modeling replies such
// as the logout endpoint's. Its JSON operation always fails.
type EmptyResponse struct {
	Status int
}

// StatusCode returns the canned status.
func (r *EmptyResponse) StatusCode() int {
	return r.Status
}

// JSON always fails with a decode error.
func (r *EmptyResponse) JSON(v any) error {
	if err := json.Unmarshal(nil, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
