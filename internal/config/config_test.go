package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitializeAt_CreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")

	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt failed: %v", err)
	}

	for _, path := range []string{SessionFile, ProfilesFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	if DatabasePath != filepath.Join(dir, "moviecli.db") {
		t.Errorf("DatabasePath = %s", DatabasePath)
	}
}

func TestInitializeAt_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	profiles := filepath.Join(dir, ".profiles.json")
	custom := []byte(`[{"name":"staging","baseUrl":"http://staging/api/movies"}]`)
	if err := os.WriteFile(profiles, custom, FilePermissions); err != nil {
		t.Fatal(err)
	}

	if err := InitializeAt(dir); err != nil {
		t.Fatalf("InitializeAt failed: %v", err)
	}

	data, err := os.ReadFile(profiles)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(custom) {
		t.Errorf("profiles overwritten: %s", data)
	}
}
