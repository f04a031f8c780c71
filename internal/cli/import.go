package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// DefaultImportConcurrency bounds in-flight creates during an import
const DefaultImportConcurrency = 4

// ImportOptions contains options for a bulk import
type ImportOptions struct {
	Path        string
	Concurrency int
}

// Import creates every movie listed in a YAML or JSON file, then refreshes
// the collection once. Nothing is sent when an entry is invalid.
func (a *App) Import(ctx context.Context, opts ImportOptions) error {
	drafts, err := readImportFile(opts.Path)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return fmt.Errorf("no movies found in %s", opts.Path)
	}

	var invalid []error
	for i, d := range drafts {
		if err := d.Validate(); err != nil {
			invalid = append(invalid, fmt.Errorf("entry %d: %w", i+1, err))
		}
	}
	if len(invalid) > 0 {
		return errors.Join(invalid...)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultImportConcurrency
	}

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	g.SetLimit(limit)

	for i, d := range drafts {
		g.Go(func() error {
			if err := a.Gateway.Create(ctx, d); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("entry %d (%q): %w", i+1, d.Title, err))
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	s, refreshErr := a.dispatch(ctx, viewmodel.NewState(), viewmodel.RefreshRequested{})

	created := len(drafts) - len(failures)
	fmt.Fprintf(a.Err, "Imported %d/%d movies", created, len(drafts))
	if refreshErr == nil {
		fmt.Fprintf(a.Err, ", %d movies in collection", s.Len())
	}
	fmt.Fprintln(a.Err)

	if len(failures) > 0 {
		return fmt.Errorf("%d imports failed: %w", len(failures), errors.Join(failures...))
	}
	if refreshErr != nil {
		return fmt.Errorf("failed to refresh movies: %w", refreshErr)
	}
	return nil
}

// readImportFile decodes a list of movies, by extension (.json, .yaml, .yml)
func readImportFile(path string) ([]types.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var movies []types.Movie
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &movies)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &movies)
	default:
		return nil, fmt.Errorf("unsupported import file %s (use .json, .yaml or .yml)", filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", filepath.Base(path), err)
	}

	drafts := make([]types.Draft, 0, len(movies))
	for _, m := range movies {
		drafts = append(drafts, types.DraftFromMovie(m))
	}
	return drafts, nil
}
