package types

import "time"

const (
	// DefaultBaseURL is the movies collection root used when no profile overrides it
	DefaultBaseURL = "http://localhost:5011/api/movies"

	// MinYear and MaxYear bound the year field (inclusive)
	MinYear = 1900
	MaxYear = 2099
)

// Movie represents a record persisted by the remote store
type Movie struct {
	ID    MovieID `json:"id" yaml:"id,omitempty"`
	Title string  `json:"title" yaml:"title"`
	Year  Year    `json:"year" yaml:"year"`
	Genre string  `json:"genre" yaml:"genre"`
}

// MoviePayload is the JSON body sent on create and update
type MoviePayload struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	Genre string `json:"genre"`
}

// Session represents ephemeral session state
type Session struct {
	ActiveProfile string `json:"activeProfile,omitempty"`
}

// Profile holds per-environment connection settings
type Profile struct {
	Name           string     `json:"name"`
	BaseURL        string     `json:"baseUrl,omitempty"`
	Timeout        string     `json:"timeout,omitempty"` // Go duration, empty = no timeout
	TLS            *TLSConfig `json:"tls,omitempty"`
	Output         string     `json:"output,omitempty"` // json, yaml, text
	HistoryEnabled *bool      `json:"historyEnabled,omitempty"`
}

// ResolvedBaseURL returns the profile base URL or the default one
func (p *Profile) ResolvedBaseURL() string {
	if p == nil || p.BaseURL == "" {
		return DefaultBaseURL
	}
	return p.BaseURL
}

// ResolvedTimeout parses the profile timeout. Zero means no timeout.
func (p *Profile) ResolvedTimeout() (time.Duration, error) {
	if p == nil || p.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(p.Timeout)
}

// IsHistoryEnabled reports whether gateway calls are journaled (default true)
func (p *Profile) IsHistoryEnabled() bool {
	if p == nil || p.HistoryEnabled == nil {
		return true
	}
	return *p.HistoryEnabled
}

// TLSConfig contains TLS/mTLS settings for the gateway HTTP client
type TLSConfig struct {
	CertFile           string `json:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty"`
	CAFile             string `json:"caFile,omitempty"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty"`
}

// Operation names a gateway operation
type Operation string

const (
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// CallRecord is one journaled gateway call
type CallRecord struct {
	ID          int64     `json:"id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Operation   Operation `json:"operation"`
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	Duration    int64     `json:"duration"` // milliseconds
	RequestSize int       `json:"requestSize,omitempty"`
	Error       string    `json:"error,omitempty"`
	ProfileName string    `json:"profileName,omitempty"`
}

// Succeeded reports whether the call returned a 2xx status without transport error
func (c CallRecord) Succeeded() bool {
	return c.Error == "" && c.Status >= 200 && c.Status < 300
}

// OperationStats aggregates journaled calls for one operation
type OperationStats struct {
	Operation     Operation `json:"operation"`
	TotalCalls    int       `json:"totalCalls"`
	FailedCalls   int       `json:"failedCalls"`
	AvgDurationMs float64   `json:"avgDurationMs"`
	MinDurationMs int64     `json:"minDurationMs"`
	MaxDurationMs int64     `json:"maxDurationMs"`
	LastCalled    time.Time `json:"lastCalled"`
}
