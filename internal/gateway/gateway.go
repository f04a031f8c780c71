package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/studiowebux/moviecli/internal/types"
)

// Recorder receives one CallRecord per request that reached the transport
type Recorder interface {
	RecordCall(call types.CallRecord) error
}

// Client issues requests against a movies collection root
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	tlsConfig   *types.TLSConfig
	recorder    Recorder
	logger      *slog.Logger
	profileName string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client (TLS and timeout options are then ignored)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTLS configures client certificates, a CA bundle or verification skipping
func WithTLS(cfg *types.TLSConfig) Option {
	return func(c *Client) { c.tlsConfig = cfg }
}

// WithRecorder journals every call
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithProfileName tags journaled calls with the active profile
func WithProfileName(name string) Option {
	return func(c *Client) { c.profileName = name }
}

// New creates a gateway for the collection at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := buildHTTPClient(c.tlsConfig, c.timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
		c.httpClient = hc
	}

	return c, nil
}

// BaseURL returns the collection root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAll fetches the whole collection in server order
func (c *Client) ListAll(ctx context.Context) ([]types.Movie, error) {
	status, body, err := c.do(ctx, types.OpList, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	if !IsSuccessStatus(status) {
		return nil, c.rejected(types.OpList, http.MethodGet, c.baseURL, status, body)
	}

	var movies []types.Movie
	if err := json.Unmarshal(body, &movies); err != nil {
		return nil, &DecodeError{Op: types.OpList, Err: err, Body: truncateBody(body)}
	}
	if movies == nil {
		movies = []types.Movie{}
	}
	return movies, nil
}

// Create posts a new movie built from the draft
func (c *Client) Create(ctx context.Context, draft types.Draft) error {
	body, err := encodeDraft(types.OpCreate, draft)
	if err != nil {
		return err
	}
	return c.mutate(ctx, types.OpCreate, http.MethodPost, c.baseURL, body)
}

// Update overwrites the movie at id with the draft's fields
func (c *Client) Update(ctx context.Context, id types.MovieID, draft types.Draft) error {
	target, err := c.itemURL(types.OpUpdate, id)
	if err != nil {
		return err
	}
	body, err := encodeDraft(types.OpUpdate, draft)
	if err != nil {
		return err
	}
	return c.mutate(ctx, types.OpUpdate, http.MethodPut, target, body)
}

// Delete removes the movie at id
func (c *Client) Delete(ctx context.Context, id types.MovieID) error {
	target, err := c.itemURL(types.OpDelete, id)
	if err != nil {
		return err
	}
	return c.mutate(ctx, types.OpDelete, http.MethodDelete, target, nil)
}

func (c *Client) itemURL(op types.Operation, id types.MovieID) (string, error) {
	if id == "" {
		return "", &EncodeError{Op: op, Err: errors.New("empty movie id")}
	}
	return c.baseURL + "/" + url.PathEscape(id.String()), nil
}

func encodeDraft(op types.Operation, draft types.Draft) ([]byte, error) {
	payload, err := draft.Payload()
	if err != nil {
		return nil, &EncodeError{Op: op, Err: err}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &EncodeError{Op: op, Err: err}
	}
	return body, nil
}

func (c *Client) mutate(ctx context.Context, op types.Operation, method, target string, body []byte) error {
	status, respBody, err := c.do(ctx, op, method, target, body)
	if err != nil {
		return err
	}
	if !IsSuccessStatus(status) {
		return c.rejected(op, method, target, status, respBody)
	}
	return nil
}

func (c *Client) rejected(op types.Operation, method, target string, status int, body []byte) error {
	return &RejectedError{
		Op:         op,
		Method:     method,
		URL:        target,
		Status:     status,
		StatusText: fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Body:       truncateBody(body),
	}
}

// do performs one request and returns the status and full response body
func (c *Client) do(ctx context.Context, op types.Operation, method, target string, body []byte) (int, []byte, error) {
	startTime := time.Now()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return 0, nil, &NetworkError{Op: op, Method: method, URL: target, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	call := types.CallRecord{
		Timestamp:   startTime,
		Operation:   op,
		Method:      method,
		URL:         target,
		RequestSize: len(body),
		ProfileName: c.profileName,
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		call.Duration = time.Since(startTime).Milliseconds()
		call.Error = err.Error()
		c.record(call)
		return 0, nil, &NetworkError{Op: op, Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	call.Status = resp.StatusCode
	call.Duration = time.Since(startTime).Milliseconds()
	if err != nil {
		call.Error = fmt.Sprintf("failed to read response body: %v", err)
		c.record(call)
		return 0, nil, &NetworkError{Op: op, Method: method, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.record(call)
	return resp.StatusCode, respBody, nil
}

func (c *Client) record(call types.CallRecord) {
	c.logger.Debug("gateway call",
		"op", call.Operation,
		"method", call.Method,
		"url", call.URL,
		"status", call.Status,
		"duration_ms", call.Duration,
		"error", call.Error,
	)

	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordCall(call); err != nil {
		c.logger.Warn("failed to journal gateway call", "op", call.Operation, "error", err)
	}
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(tlsConfig *types.TLSConfig, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if tlsConfig != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		// Load CA certificate if provided (for server verification)
		if tlsConfig.CAFile != "" {
			caCert, err := os.ReadFile(tlsConfig.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
