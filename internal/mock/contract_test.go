package mock

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/types"
)

// These tests run the gateway against the mock server to check the
// collection properties a client relies on.

func TestContract_ListIsIdempotent(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)
	ctx := context.Background()

	first, err := c.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	second, err := c.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("lists differ:\n%+v\n%+v", first, second)
	}
}

func TestContract_CreateRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)
	ctx := context.Background()

	before, _ := c.ListAll(ctx)
	if err := c.Create(ctx, types.Draft{Title: "Dune", Year: "1984", Genre: "Sci-Fi"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	after, err := c.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}

	if len(after) != len(before)+1 {
		t.Fatalf("len = %d, want %d", len(after), len(before)+1)
	}
	known := make(map[types.MovieID]bool)
	for _, m := range before {
		known[m.ID] = true
	}
	var added []types.Movie
	for _, m := range after {
		if !known[m.ID] {
			added = append(added, m)
		}
	}
	if len(added) != 1 {
		t.Fatalf("added = %+v, want exactly one new movie", added)
	}
	m := added[0]
	if m.ID == "" || m.Title != "Dune" || m.Year != 1984 || m.Genre != "Sci-Fi" {
		t.Errorf("created = %+v", m)
	}
}

func TestContract_UpdateOnlyTouchesTarget(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)
	ctx := context.Background()

	before, _ := c.ListAll(ctx)
	if err := c.Update(ctx, "1", types.Draft{Title: "Dune", Year: "2021", Genre: "Sci-Fi"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	after, _ := c.ListAll(ctx)

	if len(after) != len(before) {
		t.Fatalf("len = %d, want %d", len(after), len(before))
	}
	for i := range after {
		if after[i].ID == "1" {
			if after[i].Year != 2021 {
				t.Errorf("year = %d, want 2021", after[i].Year)
			}
			continue
		}
		if after[i] != before[i] {
			t.Errorf("movie %s changed: %+v -> %+v", after[i].ID, before[i], after[i])
		}
	}
}

func TestContract_DeleteRemovesExactlyOne(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)
	ctx := context.Background()

	before, _ := c.ListAll(ctx)
	if err := c.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	after, _ := c.ListAll(ctx)

	if len(after) != len(before)-1 {
		t.Errorf("len = %d, want %d", len(after), len(before)-1)
	}
	for _, m := range after {
		if m.ID == "2" {
			t.Error("deleted movie still listed")
		}
	}
}

func TestContract_RejectedStatusesSurface(t *testing.T) {
	srv, ts := newTestServer(t, seeded())
	c := newTestClient(t, ts, srv)

	err := c.Delete(context.Background(), "404")
	var rejected *gateway.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if status, _ := gateway.RejectedStatus(err); status != 404 {
		t.Errorf("status = %d, want 404", status)
	}
}
