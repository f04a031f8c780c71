package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/studiowebux/moviecli/internal/cli"
	"github.com/studiowebux/moviecli/internal/config"
	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/history"
	"github.com/studiowebux/moviecli/internal/keybinds"
	"github.com/studiowebux/moviecli/internal/logging"
	"github.com/studiowebux/moviecli/internal/mock"
	"github.com/studiowebux/moviecli/internal/session"
	"github.com/studiowebux/moviecli/internal/tui"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moviecli",
	Short: "Movie collection client",
	Long: `moviecli manages a remote movie collection over its REST API.

Run without arguments to start the TUI: a table of movies next to a form
that creates a movie, or updates the one being edited.

Examples:
  moviecli                               # Start interactive TUI
  moviecli list -o yaml                  # Print the collection
  moviecli list --filter "[?genre=='Drama']"
  moviecli add --title Heat --year 1995 --genre Crime
  moviecli update 3 --year 1996          # Other fields keep their values
  moviecli delete 3 --yes
  moviecli mock                          # Serve an in-memory collection on :5011`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return app.List(cmd.Context(), cli.ListOptions{
				Filter: flagFilter,
				Query:  flagQuery,
				Search: flagSearch,
				Output: flagOutput,
			})
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a movie",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return app.Add(cmd.Context(), cli.AddOptions{Title: flagTitle, Year: flagYear, Genre: flagGenre})
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a movie; unset fields keep their current values",
	Long: `Update loads the movie into the form, replaces the given fields and submits.

Without an id an interactive picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.UpdateOptions{ID: argID(args)}
		if cmd.Flags().Changed("title") {
			opts.Title = &flagTitle
		}
		if cmd.Flags().Changed("year") {
			opts.Year = &flagYear
		}
		if cmd.Flags().Changed("genre") {
			opts.Genre = &flagGenre
		}
		if opts.Title == nil && opts.Year == nil && opts.Genre == nil {
			return fmt.Errorf("nothing to update (use --title, --year or --genre)")
		}

		return withApp(cmd, func(app *cli.App) error {
			return app.Update(cmd.Context(), opts)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a movie",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return app.Delete(cmd.Context(), cli.DeleteOptions{ID: argID(args), Yes: flagYes})
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create every movie listed in a .json or .yaml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return app.Import(cmd.Context(), cli.ImportOptions{Path: args[0], Concurrency: flagConcurrency})
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the journal of gateway calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(app *cli.App) error {
			return app.History(cli.HistoryOptions{
				Limit:       flagLimit,
				Stats:       flagStats,
				Clear:       flagClear,
				AllProfiles: flagAllProfiles,
				Output:      flagOutput,
			})
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles (* marks the active one)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadSessions()
		if err != nil {
			return err
		}
		format := flagOutput
		if format == "" {
			format = cli.FormatText
		}
		return cli.ListProfiles(os.Stdout, mgr, format, isTerminal(os.Stdout))
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadSessions()
		if err != nil {
			return err
		}
		if err := mgr.SetActiveProfile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Switched to profile %s\n", args[0])
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadSessions()
		if err != nil {
			return err
		}
		profile := types.Profile{
			Name:    args[0],
			BaseURL: flagBaseURL,
			Timeout: flagProfileTimeout,
			Output:  flagOutput,
		}
		if cmd.Flags().Changed("no-history") {
			enabled := !flagNoHistory
			profile.HistoryEnabled = &enabled
		}
		if err := cli.AddProfile(mgr, profile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Added profile %s\n", profile.Name)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadSessions()
		if err != nil {
			return err
		}
		if err := cli.RemoveProfile(mgr, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Removed profile %s\n", args[0])
		return nil
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Print the default TUI keybindings as a keybinds.json template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		defaults := keybinds.ExportDefaults()

		if !flagSave {
			data, err := json.MarshalIndent(defaults, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if _, err := os.Stat(config.KeybindsFile); err == nil {
			return fmt.Errorf("%s already exists", config.KeybindsFile)
		}
		if err := keybinds.SaveConfig(defaults, config.KeybindsFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", config.KeybindsFile)
		return nil
	},
}

var keybindsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the keybinds.json file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		cfg, err := keybinds.LoadConfig(config.KeybindsFile)
		if err != nil {
			return err
		}

		result := keybinds.NewValidator().ValidateConfig(cfg)
		if result.HasErrors() || result.HasWarnings() {
			fmt.Fprintln(os.Stderr, result.String())
		}
		if result.HasErrors() {
			return fmt.Errorf("%s is invalid", config.KeybindsFile)
		}
		fmt.Fprintf(os.Stderr, "%s is valid\n", config.KeybindsFile)
		return nil
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve an in-memory movie collection",
	Long: `Start a local server implementing the movies REST contract.

The collection lives in memory and is lost on exit. A config file (.yaml or
.json) can set the address, base path, id style, latency and seed movies.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

// Persistent flags
var (
	flagProfile   string
	flagBaseURL   string
	flagTimeout   time.Duration
	flagLogLevel  string
	flagLogFormat string
)

// Command flags
var (
	flagOutput         string
	flagFilter         string
	flagQuery          string
	flagSearch         string
	flagTitle          string
	flagYear           string
	flagGenre          string
	flagYes            bool
	flagConcurrency    int
	flagLimit          int
	flagStats          bool
	flagClear          bool
	flagAllProfiles    bool
	flagProfileTimeout string
	flagNoHistory      bool
	flagSave           bool
	flagMockConfig     string
	flagMockPort       int
	flagMockHost       string
	flagMockDump       string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use for this run")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Collection root URL (overrides the profile)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout, 0 for none (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text/json)")

	listCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied to the collection")
	listCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(shell command) applied after the filter")
	listCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Fuzzy search over title, year and genre")
	listCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")

	for _, cmd := range []*cobra.Command{addCmd, updateCmd} {
		cmd.Flags().StringVar(&flagTitle, "title", "", "Movie title")
		cmd.Flags().StringVar(&flagYear, "year", "", "Release year (1900-2099)")
		cmd.Flags().StringVar(&flagGenre, "genre", "", "Movie genre")
	}

	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	importCmd.Flags().IntVar(&flagConcurrency, "concurrency", cli.DefaultImportConcurrency, "Creates in flight at once")

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of calls to show, 0 for all")
	historyCmd.Flags().BoolVar(&flagStats, "stats", false, "Show per-operation statistics")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the journal")
	historyCmd.Flags().BoolVar(&flagAllProfiles, "all", false, "Include every profile")
	historyCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")

	profileListCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")
	profileAddCmd.Flags().StringVar(&flagProfileTimeout, "request-timeout", "", "Per-request timeout stored in the profile (Go duration)")
	profileAddCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Default output format stored in the profile")
	profileAddCmd.Flags().BoolVar(&flagNoHistory, "no-history", false, "Do not journal calls made with this profile")
	profileCmd.AddCommand(profileListCmd, profileUseCmd, profileAddCmd, profileRemoveCmd)

	keybindsCmd.Flags().BoolVar(&flagSave, "save", false, "Write the template to the keybinds file instead of stdout")
	keybindsCmd.AddCommand(keybindsCheckCmd)

	mockCmd.Flags().StringVarP(&flagMockConfig, "config", "c", "", "Mock config file (.yaml/.json)")
	mockCmd.Flags().IntVar(&flagMockPort, "port", mock.DefaultPort, "Port to listen on")
	mockCmd.Flags().StringVar(&flagMockHost, "host", mock.DefaultHost, "Host to bind")
	mockCmd.Flags().StringVar(&flagMockDump, "dump-requests", "", "Write the request log as JSON to this file on exit")

	rootCmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd, importCmd, historyCmd, profileCmd, keybindsCmd, mockCmd)
}

// environment is what every collection command runs against
type environment struct {
	profile *types.Profile
	baseURL string
	logger  *slog.Logger
	journal *history.Manager
	gateway *gateway.Client
	closers []io.Closer
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i].Close()
	}
}

func loadSessions() (*session.Manager, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	mgr := session.NewManager()
	if err := mgr.Load(); err != nil {
		return nil, err
	}
	if flagProfile != "" {
		if err := mgr.UseProfile(flagProfile); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

// setup resolves the profile and builds the logger, journal and gateway.
// With toFile the logger writes to the log file instead of stderr.
func setup(cmd *cobra.Command, toFile bool) (*environment, error) {
	mgr, err := loadSessions()
	if err != nil {
		return nil, err
	}

	env := &environment{profile: mgr.GetActiveProfile()}

	logOpts := logging.Options{Format: flagLogFormat, Level: flagLogLevel}
	if toFile {
		logger, closer, err := logging.NewFile(logOpts)
		if err != nil {
			return nil, err
		}
		env.logger = logger
		env.closers = append(env.closers, closer)
	} else {
		logOpts.Writer = os.Stderr
		logger, err := logging.New(logOpts)
		if err != nil {
			return nil, err
		}
		env.logger = logger
	}

	env.baseURL = env.profile.ResolvedBaseURL()
	if flagBaseURL != "" {
		env.baseURL = flagBaseURL
	}

	timeout, err := env.profile.ResolvedTimeout()
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("profile %s: invalid timeout: %w", env.profile.Name, err)
	}
	if cmd.Flags().Changed("timeout") {
		timeout = flagTimeout
	}

	opts := []gateway.Option{
		gateway.WithTLS(env.profile.TLS),
		gateway.WithTimeout(timeout),
		gateway.WithLogger(env.logger),
		gateway.WithProfileName(env.profile.Name),
	}

	if env.profile.IsHistoryEnabled() {
		journal, err := history.NewManager(config.DatabasePath)
		if err != nil {
			// The journal is a diagnostic sink; the collection works without it
			env.logger.Warn("call journal unavailable", "error", err)
		} else {
			env.journal = journal
			env.closers = append(env.closers, journal)
			opts = append(opts, gateway.WithRecorder(journal))
		}
	}

	gw, err := gateway.New(env.baseURL, opts...)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.gateway = gw

	env.logger.Debug("gateway ready", "profile", env.profile.Name, "baseURL", env.baseURL, "timeout", timeout)
	return env, nil
}

// withApp runs fn with a CLI app wired to the active profile
func withApp(cmd *cobra.Command, fn func(app *cli.App) error) error {
	env, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	app := cli.NewApp(env.gateway, viewmodel.NewRunner(env.gateway, env.logger))
	app.Journal = env.journal
	app.ProfileName = env.profile.Name
	app.Output = env.profile.Output

	if flagOutput != "" && !cli.ValidFormat(flagOutput) {
		return fmt.Errorf("unknown output format %q (use json, yaml or text)", flagOutput)
	}

	return fn(app)
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command) error {
	env, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		env.logger.Warn("invalid keybinds file, using defaults", "path", config.KeybindsFile, "error", err)
		registry = keybinds.NewDefaultRegistry()
	}

	return tui.Run(tui.Options{
		Gateway:  env.gateway,
		Logger:   env.logger,
		Keybinds: registry,
		Profile:  env.profile,
		BaseURL:  env.baseURL,
	})
}

// runMock serves the in-memory collection until interrupted
func runMock(cmd *cobra.Command) error {
	logger, err := logging.New(logging.Options{Format: flagLogFormat, Level: flagLogLevel, Writer: os.Stderr})
	if err != nil {
		return err
	}

	cfg := mock.DefaultConfig()
	if flagMockConfig != "" {
		cfg, err = mock.LoadConfig(flagMockConfig)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("port") || flagMockConfig == "" {
		cfg.Port = flagMockPort
	}
	if cmd.Flags().Changed("host") || flagMockConfig == "" {
		cfg.Host = flagMockHost
	}

	srv := mock.NewServer(cfg, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Serving movies at %s (ctrl+c to stop)\n", srv.URL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := srv.Stop(); err != nil {
		return err
	}
	if flagMockDump == "" {
		return nil
	}

	f, err := os.Create(flagMockDump)
	if err != nil {
		return fmt.Errorf("failed to write request log: %w", err)
	}
	defer f.Close()
	if err := srv.WriteRequests(f); err != nil {
		return fmt.Errorf("failed to write request log: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d requests to %s\n", len(srv.Requests()), flagMockDump)
	return nil
}

func argID(args []string) types.MovieID {
	if len(args) == 0 {
		return ""
	}
	return types.MovieID(args[0])
}

func isTerminal(f *os.File) bool {
	return os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(f.Fd())
}
