package viewmodel

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/studiowebux/moviecli/internal/types"
)

// memoryGateway is an in-process stand-in for the remote collection
type memoryGateway struct {
	mu     sync.Mutex
	movies []types.Movie
	nextID int
	calls  []types.Operation

	failList   error
	failCreate error
	failUpdate error
	failDelete error
}

func (g *memoryGateway) ListAll(ctx context.Context) ([]types.Movie, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, types.OpList)
	if g.failList != nil {
		return nil, g.failList
	}
	out := make([]types.Movie, len(g.movies))
	copy(out, g.movies)
	return out, nil
}

func (g *memoryGateway) Create(ctx context.Context, draft types.Draft) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, types.OpCreate)
	if g.failCreate != nil {
		return g.failCreate
	}
	payload, err := draft.Payload()
	if err != nil {
		return err
	}
	g.nextID++
	g.movies = append(g.movies, types.Movie{
		ID:    types.MovieID(strconv.Itoa(g.nextID)),
		Title: payload.Title,
		Year:  types.Year(payload.Year),
		Genre: payload.Genre,
	})
	return nil
}

func (g *memoryGateway) Update(ctx context.Context, id types.MovieID, draft types.Draft) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, types.OpUpdate)
	if g.failUpdate != nil {
		return g.failUpdate
	}
	payload, err := draft.Payload()
	if err != nil {
		return err
	}
	for i := range g.movies {
		if g.movies[i].ID == id {
			g.movies[i].Title = payload.Title
			g.movies[i].Year = types.Year(payload.Year)
			g.movies[i].Genre = payload.Genre
			return nil
		}
	}
	return errors.New("404 Not Found")
}

func (g *memoryGateway) Delete(ctx context.Context, id types.MovieID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, types.OpDelete)
	if g.failDelete != nil {
		return g.failDelete
	}
	for i := range g.movies {
		if g.movies[i].ID == id {
			g.movies = append(g.movies[:i], g.movies[i+1:]...)
			return nil
		}
	}
	return errors.New("404 Not Found")
}

func (g *memoryGateway) callCount(op types.Operation) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == op {
			n++
		}
	}
	return n
}

func drive(t *testing.T, r *Runner, s State, events ...Event) State {
	t.Helper()
	for _, ev := range events {
		var errs []error
		s, errs = Drive(context.Background(), r, s, ev)
		for _, err := range errs {
			t.Fatalf("unexpected error after %T: %v", ev, err)
		}
	}
	return s
}

func edits(d types.Draft) []Event {
	var out []Event
	for _, f := range types.DraftFields {
		out = append(out, FieldEdited{Field: f, Value: d.Get(f)})
	}
	return out
}

func TestRunner_RunMapsOutcomes(t *testing.T) {
	failure := errors.New("boom")
	gw := &memoryGateway{failDelete: failure}
	r := NewRunner(gw, nil)
	ctx := context.Background()

	if ev, ok := r.Run(ctx, FetchAll{}).(ListLoaded); !ok || len(ev.Movies) != 0 {
		t.Errorf("FetchAll = %#v", ev)
	}

	draft := types.Draft{Title: "Dune", Year: "1984", Genre: "Sci-Fi"}
	if ev, ok := r.Run(ctx, CreateMovie{Draft: draft}).(MutationSucceeded); !ok || ev.Op != types.OpCreate {
		t.Errorf("CreateMovie = %#v", ev)
	}

	ev, ok := r.Run(ctx, DeleteMovie{ID: "1"}).(MutationFailed)
	if !ok || ev.Op != types.OpDelete || !errors.Is(ev.Err, failure) {
		t.Errorf("DeleteMovie = %#v", ev)
	}

	if got := r.Run(ctx, ReportError{Op: types.OpList, Err: failure}); got != nil {
		t.Errorf("ReportError produced %#v", got)
	}
}

func TestDrive_MountLoadsCollection(t *testing.T) {
	gw := &memoryGateway{movies: []types.Movie{dune, arrival}, nextID: 2}
	s := drive(t, NewRunner(gw, nil), NewState(), Mounted{})

	AssertField(t, "loaded", s.Loaded(), true)
	AssertField(t, "len", s.Len(), 2)
}

func TestDrive_RefreshIsIdempotent(t *testing.T) {
	gw := &memoryGateway{movies: []types.Movie{dune, arrival}, nextID: 2}
	r := NewRunner(gw, nil)

	first := drive(t, r, NewState(), RefreshRequested{})
	second := drive(t, r, first, RefreshRequested{})

	if len(first.Collection()) != len(second.Collection()) {
		t.Fatalf("collections differ: %+v vs %+v", first.Collection(), second.Collection())
	}
	for i, m := range first.Collection() {
		if got, _ := second.At(i); got != m {
			t.Errorf("movie %d = %+v, want %+v", i, got, m)
		}
	}
}

func TestDrive_CreateRoundTrip(t *testing.T) {
	gw := &memoryGateway{}
	r := NewRunner(gw, nil)
	draft := types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}

	s := drive(t, r, NewState(), Mounted{})
	s = drive(t, r, s, append(edits(draft), Submitted{})...)

	AssertField(t, "len", s.Len(), 1)
	m, _ := s.At(0)
	AssertField(t, "title", m.Title, "Heat")
	AssertField(t, "year", m.Year, types.Year(1995))
	AssertField(t, "genre", m.Genre, "Crime")
	AssertField(t, "mode", s.Mode(), Browsing)
	if !s.Draft().IsEmpty() {
		t.Errorf("draft = %+v, want empty", s.Draft())
	}
}

func TestDrive_UpdateOnlyTouchesTarget(t *testing.T) {
	gw := &memoryGateway{movies: []types.Movie{dune, arrival}, nextID: 2}
	r := NewRunner(gw, nil)

	s := drive(t, r, NewState(), Mounted{})
	s = drive(t, r, s,
		EditClicked{Movie: dune},
		FieldEdited{Field: types.FieldTitle, Value: "Dune: Part One"},
		FieldEdited{Field: types.FieldYear, Value: "2021"},
		Submitted{},
	)

	updated, ok := s.Find("1")
	if !ok {
		t.Fatal("movie 1 missing after update")
	}
	AssertField(t, "title", updated.Title, "Dune: Part One")
	AssertField(t, "year", updated.Year, types.Year(2021))

	other, _ := s.Find("2")
	AssertField(t, "untouched", other, arrival)
	AssertField(t, "mode", s.Mode(), Browsing)
}

func TestDrive_DeleteRemovesOnlyTarget(t *testing.T) {
	gw := &memoryGateway{movies: []types.Movie{dune, arrival}, nextID: 2}
	r := NewRunner(gw, nil)

	s := drive(t, r, NewState(), Mounted{})
	s = drive(t, r, s, DeleteClicked{ID: "1"})

	if _, ok := s.Find("1"); ok {
		t.Error("deleted movie still present")
	}
	AssertField(t, "len", s.Len(), 1)
}

func TestDrive_CreateFailureIsContained(t *testing.T) {
	failure := errors.New("500 Internal Server Error")
	gw := &memoryGateway{movies: []types.Movie{dune}, nextID: 1, failCreate: failure}
	r := NewRunner(gw, nil)
	draft := types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}

	s := drive(t, r, NewState(), Mounted{})
	for _, ev := range edits(draft) {
		s, _ = Reduce(s, ev)
	}
	listsBefore := gw.callCount(types.OpList)

	s, errs := Drive(context.Background(), r, s, Submitted{})

	if len(errs) != 1 || !errors.Is(errs[0], failure) {
		t.Errorf("reported = %v", errs)
	}
	AssertField(t, "draft", s.Draft(), draft)
	AssertField(t, "mode", s.Mode(), Browsing)
	AssertField(t, "len", s.Len(), 1)
	AssertField(t, "list calls", gw.callCount(types.OpList), listsBefore)
}

func TestDrive_InvalidDraftNeverReachesGateway(t *testing.T) {
	gw := &memoryGateway{}
	r := NewRunner(gw, nil)

	s, errs := Drive(context.Background(), r, NewState(), FieldEdited{Field: types.FieldTitle, Value: "Heat"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_, errs = Drive(context.Background(), r, s, Submitted{})

	if len(errs) != 1 {
		t.Fatalf("reported = %v", errs)
	}
	var verr *types.ValidationError
	if !errors.As(errs[0], &verr) || !verr.Has(types.FieldYear) || !verr.Has(types.FieldGenre) {
		t.Errorf("expected year and genre errors, got %v", errs[0])
	}
	AssertField(t, "create calls", gw.callCount(types.OpCreate), 0)
}

func TestDrive_ListFailureKeepsPreviousCollection(t *testing.T) {
	gw := &memoryGateway{movies: []types.Movie{dune}, nextID: 1}
	r := NewRunner(gw, nil)

	s := drive(t, r, NewState(), Mounted{})
	gw.failList = errors.New("connection refused")

	s, errs := Drive(context.Background(), r, s, RefreshRequested{})
	if len(errs) != 1 {
		t.Fatalf("reported = %v", errs)
	}
	AssertField(t, "len", s.Len(), 1)

	var report ReportError
	if !errors.As(errs[0], &report) {
		t.Fatalf("reported %T, want ReportError", errs[0])
	}
	AssertField(t, "op", report.Op, types.OpList)
	if !errors.Is(errs[0], gw.failList) {
		t.Errorf("reported = %v, want it to wrap %v", errs[0], gw.failList)
	}
}

func TestDrive_RefreshFailureAfterCreateIsReportedAsList(t *testing.T) {
	gw := &memoryGateway{}
	r := NewRunner(gw, nil)

	s := drive(t, r, NewState(), Mounted{})
	for _, ev := range edits(types.Draft{Title: "Heat", Year: "1995", Genre: "Crime"}) {
		s, _ = Reduce(s, ev)
	}
	gw.failList = errors.New("connection reset")

	_, errs := Drive(context.Background(), r, s, Submitted{})

	if len(errs) != 1 {
		t.Fatalf("reported = %v", errs)
	}
	var report ReportError
	if !errors.As(errs[0], &report) || report.Op != types.OpList {
		t.Errorf("reported = %#v, want a list failure", errs[0])
	}
	AssertField(t, "create calls", gw.callCount(types.OpCreate), 1)
}

func TestDrive_FullLifecycle(t *testing.T) {
	gw := &memoryGateway{}
	r := NewRunner(gw, nil)

	s := drive(t, r, NewState(), Mounted{})
	AssertField(t, "initial len", s.Len(), 0)

	s = drive(t, r, s, append(edits(types.Draft{Title: "Arrival", Year: "2016", Genre: "Drama"}), Submitted{})...)
	AssertField(t, "len after create", s.Len(), 1)
	created, _ := s.At(0)
	AssertField(t, "genre", created.Genre, "Drama")

	s = drive(t, r, s,
		EditClicked{Movie: created},
		FieldEdited{Field: types.FieldGenre, Value: "Sci-Fi"},
		Submitted{},
	)
	updated, _ := s.Find(created.ID)
	AssertField(t, "genre after update", updated.Genre, "Sci-Fi")
	AssertField(t, "mode after update", s.Mode(), Browsing)

	s = drive(t, r, s, DeleteClicked{ID: created.ID})
	AssertField(t, "len after delete", s.Len(), 0)
}

func TestDrive_ArrivalScenario(t *testing.T) {
	gw := &memoryGateway{}
	r := NewRunner(gw, nil)
	arrivalDraft := types.Draft{Title: "Arrival", Year: "2016", Genre: "Drama"}

	s := drive(t, r, NewState(), Mounted{})
	s = drive(t, r, s, append(edits(arrivalDraft), Submitted{})...)
	AssertField(t, "len", s.Len(), 1)

	created, _ := s.At(0)
	s = drive(t, r, s, EditClicked{Movie: created})
	AssertField(t, "draft", s.Draft(), arrivalDraft)
	AssertField(t, "mode", s.Mode(), Editing)

	s = drive(t, r, s, CancelClicked{})
	AssertField(t, "mode after cancel", s.Mode(), Browsing)
	if !s.Draft().IsEmpty() {
		t.Errorf("draft = %+v, want empty", s.Draft())
	}
}
