package mock

import (
	"time"

	"github.com/studiowebux/moviecli/internal/types"
)

// ID styles for server-assigned movie ids
const (
	IDStyleInt  = "int"
	IDStyleUUID = "uuid"
)

// Config represents the mock server configuration
type Config struct {
	Port     int           `json:"port" yaml:"port"`                             // Server port (default: 5011)
	Host     string        `json:"host" yaml:"host"`                             // Server host (default: localhost)
	BasePath string        `json:"basePath,omitempty" yaml:"basePath,omitempty"` // Collection path (default: /api/movies)
	IDStyle  string        `json:"idStyle,omitempty" yaml:"idStyle,omitempty"`   // int or uuid (default: int)
	Delay    int           `json:"delay,omitempty" yaml:"delay,omitempty"`       // Response delay in milliseconds
	Logging  bool          `json:"logging" yaml:"logging"`                       // Log every request
	Movies   []types.Movie `json:"movies,omitempty" yaml:"movies,omitempty"`     // Seed collection
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Body      string        `json:"body"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
}
