// Package viewmodel binds user intent to gateway calls and keeps the form
// draft, the edit target and the local collection consistent.
//
// State is an immutable snapshot. Reduce is a pure function from a snapshot
// and an event to the next snapshot plus the effects to perform; a Runner
// performs effects through the gateway and turns their outcome back into
// events.
package viewmodel

import (
	"fmt"

	"github.com/studiowebux/moviecli/internal/types"
)

// Mode is the edit-mode state of the form
type Mode int

const (
	// Browsing means no edit target: submitting creates a movie
	Browsing Mode = iota
	// Editing means a movie is targeted: submitting updates it
	Editing
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// State is a snapshot of the view-model. The zero value is the initial
// state: browsing, empty draft, empty collection not yet loaded.
type State struct {
	collection []types.Movie
	draft      types.Draft
	editTarget types.MovieID
	editing    bool
	loaded     bool
}

// NewState returns the initial state
func NewState() State {
	return State{}
}

// Mode reports whether a movie is being edited
func (s State) Mode() Mode {
	if s.editing {
		return Editing
	}
	return Browsing
}

// EditTarget returns the id of the movie being edited, if any
func (s State) EditTarget() (types.MovieID, bool) {
	return s.editTarget, s.editing
}

// Draft returns the form's working copy
func (s State) Draft() types.Draft {
	return s.draft
}

// Collection returns a copy of the movies from the last successful fetch
func (s State) Collection() []types.Movie {
	out := make([]types.Movie, len(s.collection))
	copy(out, s.collection)
	return out
}

// Len returns the number of movies in the collection
func (s State) Len() int {
	return len(s.collection)
}

// At returns the movie at index i of the collection
func (s State) At(i int) (types.Movie, bool) {
	if i < 0 || i >= len(s.collection) {
		return types.Movie{}, false
	}
	return s.collection[i], true
}

// Find returns the movie with the given id
func (s State) Find(id types.MovieID) (types.Movie, bool) {
	for _, m := range s.collection {
		if m.ID == id {
			return m, true
		}
	}
	return types.Movie{}, false
}

// Loaded reports whether at least one fetch has succeeded
func (s State) Loaded() bool {
	return s.loaded
}
