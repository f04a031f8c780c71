package viewmodel

import "github.com/studiowebux/moviecli/internal/types"

// Reduce returns the state following ev and the effects to run.
// It never mutates s and the returned state shares no mutable data with it.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Mounted, RefreshRequested:
		return s, []Effect{FetchAll{}}

	case ListLoaded:
		next := s
		next.collection = make([]types.Movie, len(e.Movies))
		copy(next.collection, e.Movies)
		next.loaded = true
		return next, nil

	case ListFailed:
		return s, []Effect{ReportError{Op: types.OpList, Err: e.Err}}

	case FieldEdited:
		next := s
		next.draft = s.draft.Set(e.Field, e.Value)
		return next, nil

	case Submitted:
		op := types.OpCreate
		if s.editing {
			op = types.OpUpdate
		}
		if err := s.draft.Validate(); err != nil {
			return s, []Effect{ReportError{Op: op, Err: err}}
		}
		if s.editing {
			return s, []Effect{UpdateMovie{ID: s.editTarget, Draft: s.draft}}
		}
		return s, []Effect{CreateMovie{Draft: s.draft}}

	case EditClicked:
		next := s
		next.draft = types.DraftFromMovie(e.Movie)
		next.editTarget = e.Movie.ID
		next.editing = true
		return next, nil

	case CancelClicked:
		if !s.editing {
			return s, nil
		}
		return s.resetForm(), nil

	case DeleteClicked:
		return s, []Effect{DeleteMovie{ID: e.ID}}

	case MutationSucceeded:
		switch e.Op {
		case types.OpCreate, types.OpUpdate:
			return s.resetForm(), []Effect{FetchAll{}}
		default:
			// A delete never cancels an edit in progress, even of the deleted movie
			return s, []Effect{FetchAll{}}
		}

	case MutationFailed:
		return s, []Effect{ReportError{Op: e.Op, Err: e.Err}}
	}

	return s, nil
}

// resetForm returns s in browsing mode with an empty draft
func (s State) resetForm() State {
	next := s
	next.draft = types.Draft{}
	next.editTarget = ""
	next.editing = false
	return next
}
