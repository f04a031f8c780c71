package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/session"
	"github.com/studiowebux/moviecli/internal/types"
)

// ListProfiles prints every profile, marking the active one
func ListProfiles(w io.Writer, mgr *session.Manager, format string, color bool) error {
	profiles := mgr.GetProfiles()
	active := mgr.GetActiveProfile().Name

	if format != FormatText {
		return writeStructured(w, profiles, format, color)
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		marker := ""
		if p.Name == active {
			marker = "*"
		}
		timeout := p.Timeout
		if timeout == "" {
			timeout = "none"
		}
		rows = append(rows, []string{marker, p.Name, p.ResolvedBaseURL(), timeout, strconv.FormatBool(p.IsHistoryEnabled())})
	}

	_, err := fmt.Fprintln(w, renderTable([]string{"", "NAME", "BASE URL", "TIMEOUT", "HISTORY"}, rows, color, nil))
	return err
}

// AddProfile validates and saves a new profile
func AddProfile(mgr *session.Manager, profile types.Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name required")
	}
	if _, err := gateway.New(profile.ResolvedBaseURL()); err != nil {
		return err
	}
	if _, err := profile.ResolvedTimeout(); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", profile.Timeout, err)
	}
	if profile.Output != "" && !ValidFormat(profile.Output) {
		return fmt.Errorf("unknown output format %q (use json, yaml or text)", profile.Output)
	}
	return mgr.AddProfile(profile)
}

// RemoveProfile deletes a profile. The active profile cannot be removed.
func RemoveProfile(mgr *session.Manager, name string) error {
	if mgr.GetActiveProfile().Name == name {
		return fmt.Errorf("cannot remove the active profile %s, switch first", name)
	}
	return mgr.DeleteProfile(name)
}
