package gateway

import (
	"errors"
	"fmt"

	"github.com/studiowebux/moviecli/internal/types"
)

// maxErrorBody caps how much of a response body is kept on errors
const maxErrorBody = 512

// NetworkError means the request could not be sent or the response not received
type NetworkError struct {
	Op     types.Operation
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means a list response body was not valid JSON for a movie collection
type DecodeError struct {
	Op   types.Operation
	Err  error
	Body string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RejectedError means the server answered with a non-2xx status
type RejectedError struct {
	Op         types.Operation
	Method     string
	URL        string
	Status     int
	StatusText string
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s %s rejected: %s", e.Op, e.Method, e.URL, e.StatusText)
}

// EncodeError means the draft could not be encoded; no request was sent
type EncodeError struct {
	Op  types.Operation
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: failed to encode request: %v", e.Op, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// RejectedStatus returns the HTTP status of a RejectedError anywhere in err's chain
func RejectedStatus(err error) (int, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Status, true
	}
	return 0, false
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
