package viewmodel

import "github.com/studiowebux/moviecli/internal/types"

// Event is an input to Reduce: a user intent or the outcome of an effect
type Event interface {
	isEvent()
}

// Mounted is dispatched once when the front-end starts
type Mounted struct{}

// RefreshRequested asks for a full re-fetch of the collection
type RefreshRequested struct{}

// FieldEdited replaces one draft field
type FieldEdited struct {
	Field types.Field
	Value string
}

// Submitted submits the draft (create or update depending on mode)
type Submitted struct{}

// EditClicked starts editing a movie
type EditClicked struct {
	Movie types.Movie
}

// CancelClicked abandons the current edit
type CancelClicked struct{}

// DeleteClicked deletes a movie
type DeleteClicked struct {
	ID types.MovieID
}

// ListLoaded carries a freshly fetched collection
type ListLoaded struct {
	Movies []types.Movie
}

// ListFailed reports a failed fetch
type ListFailed struct {
	Err error
}

// MutationSucceeded reports a 2xx answer to a create, update or delete
type MutationSucceeded struct {
	Op types.Operation
}

// MutationFailed reports a failed create, update or delete
type MutationFailed struct {
	Op  types.Operation
	Err error
}

func (Mounted) isEvent()           {}
func (RefreshRequested) isEvent()  {}
func (FieldEdited) isEvent()       {}
func (Submitted) isEvent()         {}
func (EditClicked) isEvent()       {}
func (CancelClicked) isEvent()     {}
func (DeleteClicked) isEvent()     {}
func (ListLoaded) isEvent()        {}
func (ListFailed) isEvent()        {}
func (MutationSucceeded) isEvent() {}
func (MutationFailed) isEvent()    {}

// Effect is work requested by Reduce
type Effect interface {
	isEffect()
}

// FetchAll re-fetches the whole collection
type FetchAll struct{}

// CreateMovie posts the draft
type CreateMovie struct {
	Draft types.Draft
}

// UpdateMovie puts the draft to an existing movie
type UpdateMovie struct {
	ID    types.MovieID
	Draft types.Draft
}

// DeleteMovie deletes a movie
type DeleteMovie struct {
	ID types.MovieID
}

// ReportError sends a failure to the diagnostic sink. It is also the error
// Drive hands back, so callers can tell which operation failed.
type ReportError struct {
	Op  types.Operation
	Err error
}

func (e ReportError) Error() string { return e.Err.Error() }

func (e ReportError) Unwrap() error { return e.Err }

func (FetchAll) isEffect()    {}
func (CreateMovie) isEffect() {}
func (UpdateMovie) isEffect() {}
func (DeleteMovie) isEffect() {}
func (ReportError) isEffect() {}
