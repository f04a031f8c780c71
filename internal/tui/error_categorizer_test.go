package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/types"
)

const (
	msgTimeout = "Request timeout - check the base URL or raise the profile timeout"
	msgRefused = "Connection refused - check if the movie server is running and the port is correct"
)

func TestCategorizeRequestError(t *testing.T) {
	tests := []struct {
		name     string
		errStr   string
		wantText string
	}{
		{
			name:     "empty error",
			errStr:   "",
			wantText: "",
		},
		{
			name:     "context deadline exceeded",
			errStr:   "Get \"http://example.com\": context deadline exceeded",
			wantText: msgTimeout,
		},
		{
			name:     "DNS lookup failure",
			errStr:   "dial tcp: lookup nonexistent.example.com: no such host",
			wantText: "DNS resolution failed - verify hostname is correct and network is available",
		},
		{
			name:     "connection refused",
			errStr:   "dial tcp 127.0.0.1:9999: connect: connection refused",
			wantText: msgRefused,
		},
		{
			name:     "connection reset",
			errStr:   "read tcp 127.0.0.1:8080->127.0.0.1:54321: read: connection reset by peer",
			wantText: "Connection reset by server - server may have crashed or network issue occurred",
		},
		{
			name:     "TLS certificate unknown authority",
			errStr:   "x509: certificate signed by unknown authority",
			wantText: "TLS certificate verification failed - add the CA certificate to the profile or set insecureSkipVerify",
		},
		{
			name:     "network unreachable",
			errStr:   "dial tcp: network is unreachable",
			wantText: "Network unreachable - check network connection and firewall settings",
		},
		{
			name:     "invalid URL",
			errStr:   "unsupported protocol scheme",
			wantText: "Invalid URL - verify the base URL format and protocol (http/https)",
		},
		{
			name:     "EOF error",
			errStr:   "unexpected EOF",
			wantText: "Connection closed unexpectedly - server may have terminated the connection prematurely",
		},
		{
			name:     "generic timeout",
			errStr:   "i/o timeout",
			wantText: "Connection timeout - server took too long to respond",
		},
		{
			name:     "context canceled",
			errStr:   "context canceled",
			wantText: "Request cancelled",
		},
		{
			name:     "unknown error",
			errStr:   "something went wrong",
			wantText: "Request failed: something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeRequestError(tt.errStr)
			if got != tt.wantText {
				t.Errorf("categorizeRequestError() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantText string
	}{
		{
			name:     "nil error",
			err:      nil,
			wantText: "",
		},
		{
			name:     "context deadline exceeded",
			err:      context.DeadlineExceeded,
			wantText: msgTimeout,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			wantText: "Request cancelled",
		},
		{
			name:     "url error with timeout",
			err:      &url.Error{Op: "Get", URL: "http://example.com", Err: context.DeadlineExceeded},
			wantText: msgTimeout,
		},
		{
			name:     "net op error with connection refused",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			wantText: msgRefused,
		},
		{
			name:     "net op error with connection reset",
			err:      &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET},
			wantText: "Connection reset by server - server may have crashed or network issue occurred",
		},
		{
			name:     "net op error with network unreachable",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ENETUNREACH},
			wantText: "Network unreachable - check network connection and firewall settings",
		},
		{
			name: "refused behind url error",
			err: &url.Error{Op: "Get", URL: "http://localhost:5011/api/movies", Err: &net.OpError{
				Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED,
			}},
			wantText: msgRefused,
		},
		{
			name:     "plain error",
			err:      errors.New("dial tcp: lookup nonexistent.example.com: no such host"),
			wantText: "DNS resolution failed - verify hostname is correct and network is available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeError(tt.err)
			if got != tt.wantText {
				t.Errorf("categorizeError() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestCategorizeSSLError(t *testing.T) {
	tests := []struct {
		name     string
		errStr   string
		wantText string
	}{
		{
			name:     "certificate expired",
			errStr:   "x509: certificate has expired or is not yet valid",
			wantText: "TLS certificate has expired - contact server administrator",
		},
		{
			name:     "hostname mismatch",
			errStr:   "x509: certificate is valid for example.com, not example.org",
			wantText: "TLS hostname mismatch - certificate doesn't match the requested hostname",
		},
		{
			name:     "handshake failure",
			errStr:   "tls: handshake failure",
			wantText: "TLS handshake failed - check TLS version compatibility",
		},
		{
			name:     "bad certificate",
			errStr:   "tls: bad certificate",
			wantText: "TLS client certificate rejected - check certFile and keyFile in the profile",
		},
		{
			name:     "generic TLS error",
			errStr:   "tls: some other error",
			wantText: "TLS error - check certificate configuration: tls: some other error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeSSLError(tt.errStr)
			if got != tt.wantText {
				t.Errorf("categorizeSSLError() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestDescribeError(t *testing.T) {
	rejected := func(status int, text, body string) error {
		return &gateway.RejectedError{Op: types.OpUpdate, Method: "PUT", URL: "http://x/1", Status: status, StatusText: text, Body: body}
	}

	tests := []struct {
		name     string
		op       types.Operation
		err      error
		wantText string
	}{
		{
			name: "validation",
			op:   types.OpCreate,
			err: &types.ValidationError{Fields: []types.FieldError{
				{Field: types.FieldTitle, Message: "is required"},
				{Field: types.FieldYear, Message: "must be a number"},
			}},
			wantText: "Failed to create movie: Invalid movie - title is required, year must be a number",
		},
		{
			name:     "not found",
			op:       types.OpUpdate,
			err:      rejected(404, "404 Not Found", ""),
			wantText: "Failed to update movie: Movie not found - it may have been deleted, press r to refresh",
		},
		{
			name:     "unprocessable with body",
			op:       types.OpUpdate,
			err:      rejected(422, "422 Unprocessable Entity", "year out of range\n"),
			wantText: "Failed to update movie: Server rejected the movie - year out of range",
		},
		{
			name:     "bad request without body",
			op:       types.OpUpdate,
			err:      rejected(400, "400 Bad Request", ""),
			wantText: "Failed to update movie: Server rejected the movie (400 Bad Request)",
		},
		{
			name:     "server error",
			op:       types.OpDelete,
			err:      rejected(500, "500 Internal Server Error", "boom"),
			wantText: "Failed to delete movie: Server error (500 Internal Server Error) - check the server logs",
		},
		{
			name:     "other status",
			op:       types.OpDelete,
			err:      rejected(409, "409 Conflict", ""),
			wantText: "Failed to delete movie: Request rejected (409 Conflict)",
		},
		{
			name:     "decode",
			op:       types.OpList,
			err:      &gateway.DecodeError{Op: types.OpList, Err: errors.New("invalid character"), Body: "<html>"},
			wantText: "Failed to load movies: Unexpected response - server did not return a movie list",
		},
		{
			name: "network wrapped",
			op:   types.OpList,
			err: fmt.Errorf("fetch: %w", &gateway.NetworkError{
				Op: types.OpList, Method: "GET", URL: "http://localhost:5011/api/movies",
				Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			}),
			wantText: "Failed to load movies: " + msgRefused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describeError(tt.op, tt.err)
			if got != tt.wantText {
				t.Errorf("describeError() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestCategorizeErrorFormatsCorrectly(t *testing.T) {
	errorStrings := []string{
		"context deadline exceeded",
		"no such host",
		"connection refused",
		"x509: certificate signed by unknown authority",
	}

	for _, errStr := range errorStrings {
		got := categorizeRequestError(errStr)
		// Known errors get no generic prefix
		if strings.HasPrefix(got, "Request failed:") {
			t.Errorf("categorizeRequestError(%q) should not have 'Request failed:' prefix, got %q", errStr, got)
		}
		if strings.HasPrefix(got, "Error:") {
			t.Errorf("categorizeRequestError(%q) should not have 'Error:' prefix, got %q", errStr, got)
		}
	}
}
