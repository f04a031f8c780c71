package tui

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/types"
)

// describeError turns a reported failure into a one-line status message
func describeError(op types.Operation, err error) string {
	return opPrefix(op) + ": " + categorizeGatewayError(err)
}

func opPrefix(op types.Operation) string {
	switch op {
	case types.OpList:
		return "Failed to load movies"
	case types.OpCreate:
		return "Failed to create movie"
	case types.OpUpdate:
		return "Failed to update movie"
	case types.OpDelete:
		return "Failed to delete movie"
	}
	return "Failed"
}

// categorizeGatewayError handles the gateway's own error kinds and falls
// back to transport categorization for network failures
func categorizeGatewayError(err error) string {
	var invalid *types.ValidationError
	if errors.As(err, &invalid) {
		parts := make([]string, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			parts = append(parts, string(f.Field)+" "+f.Message)
		}
		return "Invalid movie - " + strings.Join(parts, ", ")
	}

	var encodeErr *gateway.EncodeError
	if errors.As(err, &encodeErr) {
		return "Could not encode movie - " + encodeErr.Err.Error()
	}

	var rejected *gateway.RejectedError
	if errors.As(err, &rejected) {
		return categorizeRejected(rejected)
	}

	var decodeErr *gateway.DecodeError
	if errors.As(err, &decodeErr) {
		return "Unexpected response - server did not return a movie list"
	}

	return categorizeError(err)
}

// categorizeRejected explains a non-2xx response
func categorizeRejected(e *gateway.RejectedError) string {
	body := strings.TrimSpace(e.Body)
	switch {
	case e.Status == http.StatusNotFound:
		return "Movie not found - it may have been deleted, press r to refresh"
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		if body != "" {
			return "Server rejected the movie - " + body
		}
		return "Server rejected the movie (" + e.StatusText + ")"
	case gateway.IsServerErrorStatus(e.Status):
		return "Server error (" + e.StatusText + ") - check the server logs"
	case gateway.IsClientErrorStatus(e.Status):
		return "Request rejected (" + e.StatusText + ")"
	}
	return "Unexpected response (" + e.StatusText + ")"
}

// categorizeRequestError analyzes error strings from HTTP requests and provides
// actionable, user-friendly error messages based on the error type.
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	// Context cancellation
	if strings.Contains(errLower, "context canceled") {
		return "Request cancelled"
	}

	if strings.Contains(errLower, "deadline exceeded") {
		return "Request timeout - check the base URL or raise the profile timeout"
	}

	// DNS resolution errors
	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify hostname is correct and network is available"
	}

	// Connection refused (server not running)
	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - check if the movie server is running and the port is correct"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server - server may have crashed or network issue occurred"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check network connection and firewall settings"
	}

	// TLS/SSL errors
	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(errStr)
	}

	if strings.Contains(errLower, "invalid url") ||
		strings.Contains(errLower, "unsupported protocol") {
		return "Invalid URL - verify the base URL format and protocol (http/https)"
	}

	// EOF errors (connection closed unexpectedly)
	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - server may have terminated the connection prematurely"
	}

	if strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "timed out") {
		return "Connection timeout - server took too long to respond"
	}

	return "Request failed: " + errStr
}

// categorizeSSLError provides specific guidance for TLS/SSL certificate errors
func categorizeSSLError(errStr string) string {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "unknown authority") {
		return "TLS certificate verification failed - add the CA certificate to the profile or set insecureSkipVerify"
	}

	if strings.Contains(errLower, "expired") {
		return "TLS certificate has expired - contact server administrator"
	}

	if strings.Contains(errLower, "certificate is valid for") {
		return "TLS hostname mismatch - certificate doesn't match the requested hostname"
	}

	if strings.Contains(errLower, "handshake") {
		return "TLS handshake failed - check TLS version compatibility"
	}

	if strings.Contains(errLower, "certificate required") ||
		strings.Contains(errLower, "bad certificate") {
		return "TLS client certificate rejected - check certFile and keyFile in the profile"
	}

	return "TLS error - check certificate configuration: " + errStr
}

// categorizeError unwraps the error chain and categorizes the root cause
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - check the base URL or raise the profile timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Request timeout - check the base URL or raise the profile timeout"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if msg := categorizeNetError(opErr); msg != "" {
			return msg
		}
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate verification failed - add the CA certificate to the profile or set insecureSkipVerify"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid: " + invalidCert.Error()
	}

	// Fall back to string-based categorization
	return categorizeRequestError(err.Error())
}

// categorizeNetError maps syscall errors under a net.OpError; empty when
// the errno is not one it knows
func categorizeNetError(e *net.OpError) string {
	if e.Timeout() {
		return "Connection timeout - server took too long to respond"
	}

	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return "Connection refused - check if the movie server is running and the port is correct"
		case syscall.ECONNRESET:
			return "Connection reset by server - server may have crashed or network issue occurred"
		case syscall.ENETUNREACH:
			return "Network unreachable - check network connection and firewall settings"
		case syscall.EHOSTUNREACH:
			return "Host unreachable - check if server is online and accessible"
		}
	}

	return ""
}
