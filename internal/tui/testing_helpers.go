package tui

import (
	"context"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/mock"
	"github.com/studiowebux/moviecli/internal/types"
)

// CreateTestModel creates a Model backed by an in-process mock server
// seeded with movies. The returned client talks to the same server.
func CreateTestModel(t *testing.T, movies ...types.Movie) (*Model, *gateway.Client) {
	t.Helper()

	cfg := mock.DefaultConfig()
	cfg.Logging = false
	cfg.Movies = movies
	srv := mock.NewServer(cfg, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	baseURL := ts.URL + srv.BasePath()
	gw, err := gateway.New(baseURL)
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}

	m := New(Options{Gateway: gw, BaseURL: baseURL})
	return m, gw
}

// Mount runs Init and every command it triggers
func Mount(t *testing.T, m *Model) {
	t.Helper()
	Drain(t, m, m.Init())
}

// Drain executes cmd and every command produced while handling its
// messages. It reports whether a tea.QuitMsg was seen.
func Drain(t *testing.T, m *Model, cmd tea.Cmd) bool {
	t.Helper()

	quit := false
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("Drain: too many commands, is something ticking?")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			quit = true
		default:
			_, cmd := m.Update(msg)
			queue = append(queue, cmd)
		}
	}
	return quit
}

// Press sends keys one at a time, draining after each
func Press(t *testing.T, m *Model, keys ...tea.KeyMsg) bool {
	t.Helper()

	quit := false
	for _, key := range keys {
		_, cmd := m.Update(key)
		if Drain(t, m, cmd) {
			quit = true
		}
	}
	return quit
}

// Type builds a key press carrying text
func Type(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Key builds a key press of a special key
func Key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// ListMovies reads the server-side collection
func ListMovies(t *testing.T, gw *gateway.Client) []types.Movie {
	t.Helper()
	movies, err := gw.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	return movies
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
