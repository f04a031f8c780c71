package session

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/studiowebux/moviecli/internal/config"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/tidwall/jsonc"
)

const defaultProfileName = "Default"

// Manager handles session and profile management
type Manager struct {
	session  *types.Session
	profiles []types.Profile

	sessionPath  string
	profilesPath string
}

// NewManager creates a new session manager using the configured file locations
func NewManager() *Manager {
	return &Manager{
		session:  &types.Session{},
		profiles: []types.Profile{},
	}
}

// NewManagerAt creates a session manager reading and writing explicit paths
func NewManagerAt(sessionPath, profilesPath string) *Manager {
	m := NewManager()
	m.sessionPath = sessionPath
	m.profilesPath = profilesPath
	return m
}

func (m *Manager) sessionFile() string {
	if m.sessionPath != "" {
		return m.sessionPath
	}
	return config.GetSessionFilePath()
}

func (m *Manager) profilesFile() string {
	if m.profilesPath != "" {
		return m.profilesPath
	}
	return config.GetProfilesFilePath()
}

// Load loads session and profiles from disk
func (m *Manager) Load() error {
	if err := m.LoadSession(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if err := m.LoadProfiles(); err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	return nil
}

// LoadSession loads the session file
func (m *Manager) LoadSession() error {
	data, err := os.ReadFile(m.sessionFile())
	if err != nil {
		// If file doesn't exist, use default session
		m.session = &types.Session{}
		return nil
	}

	var session types.Session
	if err := json.Unmarshal(jsonc.ToJSON(data), &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	m.session = &session
	return nil
}

// SaveSession saves the session to disk
func (m *Manager) SaveSession() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.sessionFile(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// LoadProfiles loads the profiles file. Comments and trailing commas are allowed.
func (m *Manager) LoadProfiles() error {
	data, err := os.ReadFile(m.profilesFile())
	if err != nil {
		// If file doesn't exist, create default profile
		m.profiles = []types.Profile{{Name: defaultProfileName, BaseURL: types.DefaultBaseURL}}
		return nil
	}

	var profiles []types.Profile
	if err := json.Unmarshal(jsonc.ToJSON(data), &profiles); err != nil {
		return fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for i := range profiles {
		if _, err := profiles[i].ResolvedTimeout(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: profile '%s': invalid timeout %q, ignoring\n", profiles[i].Name, profiles[i].Timeout)
			profiles[i].Timeout = ""
		}
		switch profiles[i].Output {
		case "", "json", "yaml", "text":
		default:
			fmt.Fprintf(os.Stderr, "warning: profile '%s': unknown output %q, using text\n", profiles[i].Name, profiles[i].Output)
			profiles[i].Output = ""
		}
	}

	m.profiles = profiles
	return nil
}

// SaveProfiles saves the profiles to disk
func (m *Manager) SaveProfiles() error {
	data, err := json.MarshalIndent(m.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(m.profilesFile(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}

	return nil
}

// GetSession returns the current session
func (m *Manager) GetSession() *types.Session {
	return m.session
}

// GetProfiles returns all profiles
func (m *Manager) GetProfiles() []types.Profile {
	return m.profiles
}

// GetActiveProfile returns the currently active profile
func (m *Manager) GetActiveProfile() *types.Profile {
	if m.session.ActiveProfile != "" {
		for i := range m.profiles {
			if m.profiles[i].Name == m.session.ActiveProfile {
				return &m.profiles[i]
			}
		}
	}

	// Fall back to the first profile
	if len(m.profiles) > 0 {
		return &m.profiles[0]
	}

	return &types.Profile{Name: defaultProfileName, BaseURL: types.DefaultBaseURL}
}

// SetActiveProfile sets the active profile by name
func (m *Manager) SetActiveProfile(name string) error {
	if _, ok := m.findProfile(name); !ok {
		return fmt.Errorf("profile not found: %s", name)
	}

	m.session.ActiveProfile = name
	return m.SaveSession()
}

// UseProfile selects a profile for this process without persisting the choice
func (m *Manager) UseProfile(name string) error {
	if _, ok := m.findProfile(name); !ok {
		return fmt.Errorf("profile not found: %s", name)
	}
	m.session.ActiveProfile = name
	return nil
}

// AddProfile adds a new profile
func (m *Manager) AddProfile(profile types.Profile) error {
	if _, ok := m.findProfile(profile.Name); ok {
		return fmt.Errorf("profile already exists: %s", profile.Name)
	}

	m.profiles = append(m.profiles, profile)
	return m.SaveProfiles()
}

// DeleteProfile deletes a profile by name
func (m *Manager) DeleteProfile(name string) error {
	i, ok := m.findProfile(name)
	if !ok {
		return fmt.Errorf("profile not found: %s", name)
	}
	m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
	return m.SaveProfiles()
}

func (m *Manager) findProfile(name string) (int, bool) {
	for i := range m.profiles {
		if m.profiles[i].Name == name {
			return i, true
		}
	}
	return -1, false
}
