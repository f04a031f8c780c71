package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	localSessionFile  = ".session.json"
	localProfilesFile = ".profiles.json"
)

var (
	// ConfigDir is the global configuration directory (~/.moviecli)
	ConfigDir string

	// DatabasePath is the SQLite database file for the call journal
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// ProfilesFile is the profiles configuration file
	ProfilesFile string

	// KeybindsFile holds user keybinding overrides for the TUI
	KeybindsFile string

	// LogFile receives diagnostics while the TUI owns the terminal
	LogFile string
)

// Initialize sets up the configuration directory and default files
// It creates ~/.moviecli/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".moviecli"))
}

// InitializeAt sets up the configuration rooted at dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "moviecli.db")
	SessionFile = filepath.Join(ConfigDir, localSessionFile)
	ProfilesFile = filepath.Join(ConfigDir, localProfilesFile)
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogFile = filepath.Join(ConfigDir, "moviecli.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"activeProfile":"Default"}`)
		if err := os.WriteFile(SessionFile, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	// Create default profiles file if it doesn't exist
	if _, err := os.Stat(ProfilesFile); os.IsNotExist(err) {
		defaultProfiles := []byte(`[
  // Collection root of the movies API
  {"name": "Default", "baseUrl": "http://localhost:5011/api/movies"}
]
`)
		if err := os.WriteFile(ProfilesFile, defaultProfiles, FilePermissions); err != nil {
			return fmt.Errorf("failed to create profiles file: %w", err)
		}
	}

	return nil
}

// LocalConfigExists checks if there's a local .session.json or .profiles.json
func LocalConfigExists() bool {
	_, sessionErr := os.Stat(localSessionFile)
	_, profilesErr := os.Stat(localProfilesFile)
	return sessionErr == nil || profilesErr == nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if _, err := os.Stat(localSessionFile); err == nil {
		return localSessionFile
	}
	return SessionFile
}

// GetProfilesFilePath returns the profiles file path (local or global)
func GetProfilesFilePath() string {
	if _, err := os.Stat(localProfilesFile); err == nil {
		return localProfilesFile
	}
	return ProfilesFile
}
