package cli

import "fmt"

// HistoryOptions selects what the history command shows
type HistoryOptions struct {
	Limit       int
	Stats       bool
	Clear       bool
	AllProfiles bool
	Output      string
}

// History prints, aggregates or clears the call journal of the active profile
func (a *App) History(opts HistoryOptions) error {
	if a.Journal == nil {
		return fmt.Errorf("history is disabled for profile %s", a.ProfileName)
	}

	profile := a.ProfileName
	if opts.AllProfiles {
		profile = ""
	}

	if opts.Clear {
		if err := a.Journal.Clear(profile); err != nil {
			return err
		}
		if profile == "" {
			fmt.Fprintln(a.Err, "History cleared")
		} else {
			fmt.Fprintf(a.Err, "History cleared for profile %s\n", profile)
		}
		return nil
	}

	format := a.format(opts.Output)

	if opts.Stats {
		stats, err := a.Journal.Stats(profile)
		if err != nil {
			return err
		}
		return writeStats(a.Out, stats, format, a.Color)
	}

	calls, err := a.Journal.Load(profile, opts.Limit)
	if err != nil {
		return err
	}
	return writeCalls(a.Out, calls, format, a.Color)
}
