package viewmodel

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studiowebux/moviecli/internal/types"
)

// Gateway is the remote resource the runner talks to
type Gateway interface {
	ListAll(ctx context.Context) ([]types.Movie, error)
	Create(ctx context.Context, draft types.Draft) error
	Update(ctx context.Context, id types.MovieID, draft types.Draft) error
	Delete(ctx context.Context, id types.MovieID) error
}

// Runner performs effects and converts their outcome into events
type Runner struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewRunner creates a runner. A nil logger discards diagnostics.
func NewRunner(gw Gateway, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{gateway: gw, logger: logger}
}

// Run performs one effect. It returns the resulting event, or nil for
// effects that produce none (ReportError).
func (r *Runner) Run(ctx context.Context, eff Effect) Event {
	switch e := eff.(type) {
	case FetchAll:
		movies, err := r.gateway.ListAll(ctx)
		if err != nil {
			return ListFailed{Err: err}
		}
		return ListLoaded{Movies: movies}

	case CreateMovie:
		if err := r.gateway.Create(ctx, e.Draft); err != nil {
			return MutationFailed{Op: types.OpCreate, Err: err}
		}
		r.logger.Info("movie created", "title", e.Draft.Title)
		return MutationSucceeded{Op: types.OpCreate}

	case UpdateMovie:
		if err := r.gateway.Update(ctx, e.ID, e.Draft); err != nil {
			return MutationFailed{Op: types.OpUpdate, Err: err}
		}
		r.logger.Info("movie updated", "id", e.ID)
		return MutationSucceeded{Op: types.OpUpdate}

	case DeleteMovie:
		if err := r.gateway.Delete(ctx, e.ID); err != nil {
			return MutationFailed{Op: types.OpDelete, Err: err}
		}
		r.logger.Info("movie deleted", "id", e.ID)
		return MutationSucceeded{Op: types.OpDelete}

	case ReportError:
		r.Report(e)
		return nil
	}

	return nil
}

// Report writes a failure to the diagnostic sink
func (r *Runner) Report(e ReportError) {
	var verr *types.ValidationError
	if errors.As(e.Err, &verr) {
		r.logger.Warn("draft rejected", "op", e.Op, "error", e.Err)
		return
	}
	r.logger.Error("operation failed", "op", e.Op, "error", e.Err)
}

// Drive dispatches ev and runs every resulting effect sequentially, feeding
// their outcomes back into Reduce until no effect is left. It returns the
// final state and every error reported along the way, each one a ReportError.
func Drive(ctx context.Context, r *Runner, s State, ev Event) (State, []error) {
	var reported []error
	queue := []Event{ev}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		var effects []Effect
		s, effects = Reduce(s, current)

		for _, eff := range effects {
			if report, ok := eff.(ReportError); ok {
				reported = append(reported, report)
			}
			if next := r.Run(ctx, eff); next != nil {
				queue = append(queue, next)
			}
		}
	}

	return s, reported
}
