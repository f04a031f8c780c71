package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/studiowebux/moviecli/internal/filter"
	"github.com/studiowebux/moviecli/internal/history"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// App carries what every command needs
type App struct {
	Gateway viewmodel.Gateway
	Runner  *viewmodel.Runner
	Journal *history.Manager // nil when the journal is disabled

	ProfileName string
	Output      string // default output format

	In          io.Reader
	Out         io.Writer
	Err         io.Writer
	Interactive bool
	Color       bool

	// pick chooses a movie when no id was given; swapped in tests
	pick func(movies []types.Movie, title string) (types.Movie, error)
}

// NewApp wires an App to the process's standard streams
func NewApp(gw viewmodel.Gateway, runner *viewmodel.Runner) *App {
	return &App{
		Gateway:     gw,
		Runner:      runner,
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Interactive: isInteractive(),
		Color:       colorEnabled(os.Stdout),
		pick:        pickMovie,
	}
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// dispatch feeds events one after the other, running every effect to
// completion. All errors reported along the way are joined. When the only
// failures come from reloading the collection the error is a *refreshError.
func (a *App) dispatch(ctx context.Context, s viewmodel.State, events ...viewmodel.Event) (viewmodel.State, error) {
	var failed, reload []error
	for _, ev := range events {
		var errs []error
		s, errs = viewmodel.Drive(ctx, a.Runner, s, ev)
		for _, err := range errs {
			var report viewmodel.ReportError
			if errors.As(err, &report) && report.Op == types.OpList {
				reload = append(reload, err)
			} else {
				failed = append(failed, err)
			}
		}
	}

	if len(failed) > 0 {
		return s, errors.Join(append(failed, reload...)...)
	}
	if len(reload) > 0 {
		return s, &refreshError{err: errors.Join(reload...)}
	}
	return s, nil
}

// refreshError is a failed reload of the collection. A write dispatched
// before it went through.
type refreshError struct {
	err error
}

func (e *refreshError) Error() string { return e.err.Error() }

func (e *refreshError) Unwrap() error { return e.err }

// splitRefresh separates a failed reload from the failure of the write
// that preceded it
func splitRefresh(err error) (reload, failed error) {
	var r *refreshError
	if errors.As(err, &r) {
		return r.err, nil
	}
	return nil, err
}

// warnRefresh reports a reload that failed after a successful write
func (a *App) warnRefresh(err error) {
	fmt.Fprintf(a.Err, "Warning: failed to refresh movies: %v\n", err)
}

// load fetches the collection into a fresh state
func (a *App) load(ctx context.Context) (viewmodel.State, error) {
	s, err := a.dispatch(ctx, viewmodel.NewState(), viewmodel.Mounted{})
	if err != nil {
		return s, fmt.Errorf("failed to load movies: %w", err)
	}
	return s, nil
}

// ListOptions contains options for listing movies
type ListOptions struct {
	Filter string // JMESPath filter expression
	Query  string // JMESPath query or $(shell command)
	Search string // fuzzy pattern over title, year and genre
	Output string // json, yaml, text
}

// List prints the collection
func (a *App) List(ctx context.Context, opts ListOptions) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	movies := s.Collection()
	if opts.Search != "" {
		matched := make([]types.Movie, 0, len(movies))
		for _, i := range filter.Fuzzy(movies, opts.Search) {
			matched = append(matched, movies[i])
		}
		movies = matched
	}

	format := a.format(opts.Output)

	if opts.Query != "" {
		data, err := json.Marshal(movies)
		if err != nil {
			return fmt.Errorf("failed to encode movies: %w", err)
		}
		doc, err := filter.Apply(string(data), opts.Filter, opts.Query)
		if err != nil {
			return err
		}
		return writeDocument(a.Out, doc, format, a.Color)
	}

	if opts.Filter != "" {
		filtered, doc, ok, err := filter.Movies(movies, opts.Filter)
		if err != nil {
			return err
		}
		if !ok {
			return writeDocument(a.Out, doc, format, a.Color)
		}
		movies = filtered
	}

	return writeMovies(a.Out, movies, format, a.Color)
}

// AddOptions holds the new movie's fields
type AddOptions struct {
	Title string
	Year  string
	Genre string
}

// Add creates a movie from the given fields
func (a *App) Add(ctx context.Context, opts AddOptions) error {
	draft := types.Draft{Title: opts.Title, Year: opts.Year, Genre: opts.Genre}

	events := edits(draft, types.DraftFields)
	events = append(events, viewmodel.Submitted{})

	s, err := a.dispatch(ctx, viewmodel.NewState(), events...)
	reload, err := splitRefresh(err)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	if reload != nil {
		fmt.Fprintf(a.Err, "Created %q (%s)\n", draft.Title, strings.TrimSpace(draft.Year))
		a.warnRefresh(reload)
		return nil
	}
	fmt.Fprintf(a.Err, "Created %q (%s), %d movies in collection\n", draft.Title, strings.TrimSpace(draft.Year), s.Len())
	return nil
}

// UpdateOptions names the movie to update and the fields to change.
// Nil fields keep the movie's current values.
type UpdateOptions struct {
	ID    types.MovieID
	Title *string
	Year  *string
	Genre *string
}

// Update edits an existing movie: the record is loaded into the draft, the
// given fields are replaced and the draft is submitted.
func (a *App) Update(ctx context.Context, opts UpdateOptions) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	movie, err := a.resolve(s, opts.ID, "Select a movie to update")
	if err != nil {
		return err
	}

	changed := types.DraftFromMovie(movie)
	given := map[types.Field]*string{
		types.FieldTitle: opts.Title,
		types.FieldYear:  opts.Year,
		types.FieldGenre: opts.Genre,
	}
	var fields []types.Field
	for _, field := range types.DraftFields {
		if value := given[field]; value != nil {
			changed = changed.Set(field, *value)
			fields = append(fields, field)
		}
	}

	events := []viewmodel.Event{viewmodel.EditClicked{Movie: movie}}
	events = append(events, edits(changed, fields)...)
	events = append(events, viewmodel.Submitted{})

	_, err = a.dispatch(ctx, s, events...)
	reload, err := splitRefresh(err)
	if err != nil {
		return fmt.Errorf("failed to update movie %s: %w", movie.ID, err)
	}

	fmt.Fprintf(a.Err, "Updated %s: %q (%s)\n", movie.ID, changed.Title, strings.TrimSpace(changed.Year))
	if reload != nil {
		a.warnRefresh(reload)
	}
	return nil
}

// DeleteOptions names the movie to delete
type DeleteOptions struct {
	ID  types.MovieID
	Yes bool // skip the confirmation prompt
}

// Delete removes a movie after confirmation
func (a *App) Delete(ctx context.Context, opts DeleteOptions) error {
	s, err := a.load(ctx)
	if err != nil {
		return err
	}

	movie, err := a.resolve(s, opts.ID, "Select a movie to delete")
	if err != nil {
		return err
	}

	if !opts.Yes {
		if !a.Interactive {
			return fmt.Errorf("refusing to delete %s without confirmation (non-interactive mode). Use --yes", movie.ID)
		}
		ok, err := confirm(a.In, a.Err, fmt.Sprintf("Delete %q (%d)?", movie.Title, movie.Year))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("deletion cancelled by user")
		}
	}

	s, err = a.dispatch(ctx, s, viewmodel.DeleteClicked{ID: movie.ID})
	reload, err := splitRefresh(err)
	if err != nil {
		return fmt.Errorf("failed to delete movie %s: %w", movie.ID, err)
	}

	if reload != nil {
		fmt.Fprintf(a.Err, "Deleted %s\n", movie.ID)
		a.warnRefresh(reload)
		return nil
	}
	fmt.Fprintf(a.Err, "Deleted %s, %d movies in collection\n", movie.ID, s.Len())
	return nil
}

// resolve finds the movie to act on, asking the user when no id was given
func (a *App) resolve(s viewmodel.State, id types.MovieID, title string) (types.Movie, error) {
	if id == "" {
		if !a.Interactive {
			return types.Movie{}, fmt.Errorf("movie id required (non-interactive mode)")
		}
		if s.Len() == 0 {
			return types.Movie{}, fmt.Errorf("no movies in collection")
		}
		return a.pick(s.Collection(), title)
	}

	movie, ok := s.Find(id)
	if !ok {
		return types.Movie{}, fmt.Errorf("movie not found: %s", id)
	}
	return movie, nil
}

// edits turns draft fields into FieldEdited events
func edits(draft types.Draft, fields []types.Field) []viewmodel.Event {
	events := make([]viewmodel.Event, 0, len(fields))
	for _, field := range fields {
		events = append(events, viewmodel.FieldEdited{Field: field, Value: draft.Get(field)})
	}
	return events
}

// confirm asks a yes/no question, defaulting to no
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
