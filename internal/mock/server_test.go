package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/types"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	srv := NewServer(cfg, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func newTestClient(t *testing.T, ts *httptest.Server, srv *Server) *gateway.Client {
	t.Helper()
	c, err := gateway.New(ts.URL + srv.BasePath())
	if err != nil {
		t.Fatalf("gateway.New() error = %v", err)
	}
	return c
}

func send(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(data)
}

func seeded() *Config {
	cfg := DefaultConfig()
	cfg.Movies = []types.Movie{
		{ID: "1", Title: "Dune", Year: 1984, Genre: "Sci-Fi"},
		{ID: "2", Title: "Arrival", Year: 2016, Genre: "Drama"},
	}
	return cfg
}

func TestListMovies_EmitsBareArrayWithNumericIDs(t *testing.T) {
	srv, ts := newTestServer(t, seeded())

	status, body := send(t, http.MethodGet, ts.URL+srv.BasePath(), "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("body is not an array: %v\n%s", err, body)
	}
	if len(raw) != 2 {
		t.Fatalf("len = %d", len(raw))
	}
	if _, ok := raw[0]["id"].(float64); !ok {
		t.Errorf("id = %#v, want a JSON number", raw[0]["id"])
	}
}

func TestListMovies_EmptyCollectionIsEmptyArray(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	_, body := send(t, http.MethodGet, ts.URL+srv.BasePath(), "")
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestCreateMovie_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields []string
	}{
		{name: "valid numeric year", body: `{"title":"Heat","year":1995,"genre":"Crime"}`, wantStatus: http.StatusCreated},
		{name: "valid string year", body: `{"title":"Heat","year":"1995","genre":"Crime"}`, wantStatus: http.StatusCreated},
		{name: "missing everything", body: `{}`, wantStatus: http.StatusUnprocessableEntity, wantFields: []string{"title", "year", "genre"}},
		{name: "blank title", body: `{"title":"  ","year":1995,"genre":"Crime"}`, wantStatus: http.StatusUnprocessableEntity, wantFields: []string{"title"}},
		{name: "year too old", body: `{"title":"Heat","year":1899,"genre":"Crime"}`, wantStatus: http.StatusUnprocessableEntity, wantFields: []string{"year"}},
		{name: "year too new", body: `{"title":"Heat","year":2100,"genre":"Crime"}`, wantStatus: http.StatusUnprocessableEntity, wantFields: []string{"year"}},
		{name: "non-numeric year", body: `{"title":"Heat","year":"soon","genre":"Crime"}`, wantStatus: http.StatusUnprocessableEntity, wantFields: []string{"year"}},
		{name: "malformed json", body: `{"title":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"title":"Heat","year":1995,"genre":"Crime","rating":5}`, wantStatus: http.StatusBadRequest},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest},
		{name: "two values", body: `{"title":"Heat","year":1995,"genre":"Crime"}{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ts := newTestServer(t, nil)

			status, body := send(t, http.MethodPost, ts.URL+srv.BasePath(), tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.wantStatus, body)
			}

			if len(tt.wantFields) > 0 {
				var resp struct {
					Error map[string]string `json:"error"`
				}
				if err := json.Unmarshal([]byte(body), &resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if len(resp.Error) != len(tt.wantFields) {
					t.Errorf("fields = %v, want %v", resp.Error, tt.wantFields)
				}
				for _, f := range tt.wantFields {
					if _, ok := resp.Error[f]; !ok {
						t.Errorf("missing error for %q in %v", f, resp.Error)
					}
				}
			}
		})
	}
}

func TestItemRoutes_UnknownIDIsNotFound(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	item := ts.URL + srv.BasePath() + "/99"

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		status, _ := send(t, method, item, `{"title":"X","year":2000,"genre":"Y"}`)
		if status != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", method, status)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	status, _ := send(t, http.MethodPatch, ts.URL+srv.BasePath(), "")
	if status != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", status)
	}
}

func TestUUIDStyle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IDStyle = IDStyleUUID
	srv, ts := newTestServer(t, cfg)
	c := newTestClient(t, ts, srv)

	if err := c.Create(context.Background(), types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	movies, err := c.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(movies) != 1 {
		t.Fatalf("len = %d", len(movies))
	}
	if _, err := uuid.Parse(movies[0].ID.String()); err != nil {
		t.Errorf("id %q is not a uuid: %v", movies[0].ID, err)
	}
}

func TestSeedNumberingContinues(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)

	if err := c.Create(context.Background(), types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	movies, _ := c.ListAll(context.Background())
	if got := movies[len(movies)-1].ID; got != "3" {
		t.Errorf("new id = %q, want 3", got)
	}
}

func TestRequestLog(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	c := newTestClient(t, ts, srv)

	ctx := context.Background()
	if _, err := c.ListAll(ctx); err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if err := c.Create(ctx, types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	logs := srv.Requests()
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	if logs[0].Method != http.MethodGet || logs[0].Path != srv.BasePath() || logs[0].Status != http.StatusOK {
		t.Errorf("log = %+v", logs[0])
	}
	if logs[1].Method != http.MethodPost || logs[1].Status != http.StatusCreated || !strings.Contains(logs[1].Body, `"Heat"`) {
		t.Errorf("log = %+v", logs[1])
	}

	var out bytes.Buffer
	if err := srv.WriteRequests(&out); err != nil {
		t.Fatalf("WriteRequests() error = %v", err)
	}
	var dumped []RequestLog
	if err := json.Unmarshal(out.Bytes(), &dumped); err != nil {
		t.Fatalf("dump is not JSON: %v\n%s", err, out.String())
	}
	if len(dumped) != 2 || dumped[1].Path != srv.BasePath() {
		t.Errorf("dumped = %+v", dumped)
	}
}

func TestRootBasePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BasePath = "/"
	srv, ts := newTestServer(t, cfg)
	c := newTestClient(t, ts, srv)

	ctx := context.Background()
	if err := c.Create(ctx, types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := c.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "mock.yaml")
	yamlConfig := `port: 6000
idStyle: uuid
delay: 10
movies:
  - id: 7
    title: Dune
    year: 1984
    genre: Sci-Fi
`
	if err := os.WriteFile(yamlPath, []byte(yamlConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(yamlPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != 6000 || cfg.IDStyle != IDStyleUUID || cfg.Delay != 10 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Host != DefaultHost || cfg.BasePath != DefaultBasePath || !cfg.Logging {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Movies) != 1 || cfg.Movies[0].ID != "7" || cfg.Movies[0].Year != 1984 {
		t.Errorf("movies = %+v", cfg.Movies)
	}

	// JSON round trip through SaveConfig
	jsonPath := filepath.Join(dir, "mock.json")
	if err := SaveConfig(cfg, jsonPath); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	again, err := LoadConfig(jsonPath)
	if err != nil {
		t.Fatalf("LoadConfig(json) error = %v", err)
	}
	if again.Port != cfg.Port || len(again.Movies) != 1 || again.Movies[0].Title != "Dune" {
		t.Errorf("json config = %+v", again)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad extension", file: "mock.toml", content: "port = 1"},
		{name: "bad id style", file: "mock.yaml", content: "idStyle: hex\n"},
		{name: "relative base path", file: "mock.yaml", content: "basePath: api/movies\n"},
		{name: "negative delay", file: "mock.yaml", content: "delay: -5\n"},
		{name: "duplicate ids", file: "mock.yaml", content: "movies:\n  - {id: 1, title: A, year: 2000, genre: B}\n  - {id: 1, title: C, year: 2001, genre: D}\n"},
		{name: "invalid seed", file: "mock.yaml", content: "movies:\n  - {id: 1, title: A, year: 1800, genre: B}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
