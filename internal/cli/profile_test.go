package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studiowebux/moviecli/internal/session"
	"github.com/studiowebux/moviecli/internal/types"
)

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	dir := t.TempDir()
	mgr := session.NewManagerAt(filepath.Join(dir, "session.json"), filepath.Join(dir, "profiles.json"))
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return mgr
}

func TestAddProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile types.Profile
		wantErr string
	}{
		{"valid", types.Profile{Name: "staging", BaseURL: "https://staging.example.com/api/movies", Timeout: "5s"}, ""},
		{"default base url", types.Profile{Name: "local"}, ""},
		{"missing name", types.Profile{BaseURL: "http://x/api/movies"}, "profile name required"},
		{"bad scheme", types.Profile{Name: "ftp", BaseURL: "ftp://x/api/movies"}, "scheme must be http or https"},
		{"bad timeout", types.Profile{Name: "slow", Timeout: "soon"}, "invalid timeout"},
		{"bad output", types.Profile{Name: "xml", Output: "xml"}, "unknown output format"},
		{"duplicate", types.Profile{Name: "Default"}, "profile already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := newTestSessions(t)
			err := AddProfile(mgr, tt.profile)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("AddProfile() error = %v", err)
				}
				if n := len(mgr.GetProfiles()); n != 2 {
					t.Errorf("profiles = %d, want 2", n)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("AddProfile() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRemoveProfile(t *testing.T) {
	mgr := newTestSessions(t)
	if err := AddProfile(mgr, types.Profile{Name: "staging"}); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}

	if err := RemoveProfile(mgr, "Default"); err == nil {
		t.Error("RemoveProfile(active) error = nil, want error")
	}
	if err := RemoveProfile(mgr, "missing"); err == nil {
		t.Error("RemoveProfile(missing) error = nil, want error")
	}
	if err := RemoveProfile(mgr, "staging"); err != nil {
		t.Fatalf("RemoveProfile() error = %v", err)
	}
	if n := len(mgr.GetProfiles()); n != 1 {
		t.Errorf("profiles = %d, want 1", n)
	}
}

func TestListProfiles(t *testing.T) {
	mgr := newTestSessions(t)
	if err := AddProfile(mgr, types.Profile{Name: "staging", BaseURL: "https://staging.example.com/api/movies"}); err != nil {
		t.Fatalf("AddProfile() error = %v", err)
	}

	var text bytes.Buffer
	if err := ListProfiles(&text, mgr, FormatText, false); err != nil {
		t.Fatalf("ListProfiles(text) error = %v", err)
	}
	for _, want := range []string{"Default", "staging", "https://staging.example.com/api/movies", "none"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, text.String())
		}
	}

	var out bytes.Buffer
	if err := ListProfiles(&out, mgr, FormatJSON, false); err != nil {
		t.Fatalf("ListProfiles(json) error = %v", err)
	}
	var profiles []types.Profile
	if err := json.Unmarshal(out.Bytes(), &profiles); err != nil {
		t.Fatalf("json output: %v\n%s", err, out.String())
	}
	if len(profiles) != 2 || profiles[1].Name != "staging" {
		t.Errorf("profiles = %+v", profiles)
	}
}
