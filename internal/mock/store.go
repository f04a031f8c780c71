package mock

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/studiowebux/moviecli/internal/types"
)

// store is the in-memory collection behind the server. Insertion order is
// preserved so that listing is stable between mutations.
type store struct {
	mu      sync.RWMutex
	movies  []types.Movie
	idStyle string
	nextID  int64
}

func newStore(idStyle string, seed []types.Movie) *store {
	s := &store{
		movies:  make([]types.Movie, len(seed)),
		idStyle: idStyle,
	}
	copy(s.movies, seed)

	// Continue numbering after the highest numeric seed id
	for _, m := range seed {
		if n, err := strconv.ParseInt(string(m.ID), 10, 64); err == nil && n > s.nextID {
			s.nextID = n
		}
	}

	return s
}

func (s *store) list() []types.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

func (s *store) get(id types.MovieID) (types.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.movies[i], true
	}
	return types.Movie{}, false
}

func (s *store) create(p types.MoviePayload) types.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := types.Movie{
		ID:    s.newID(),
		Title: p.Title,
		Year:  types.Year(p.Year),
		Genre: p.Genre,
	}
	s.movies = append(s.movies, m)
	return m
}

func (s *store) update(id types.MovieID, p types.MoviePayload) (types.Movie, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Movie{}, false
	}
	s.movies[i].Title = p.Title
	s.movies[i].Year = types.Year(p.Year)
	s.movies[i].Genre = p.Genre
	return s.movies[i], true
}

func (s *store) remove(id types.MovieID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.movies = append(s.movies[:i], s.movies[i+1:]...)
	return true
}

// indexOf must be called with the lock held
func (s *store) indexOf(id types.MovieID) int {
	for i, m := range s.movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// newID must be called with the write lock held
func (s *store) newID() types.MovieID {
	if s.idStyle == IDStyleUUID {
		return types.MovieID(uuid.NewString())
	}
	s.nextID++
	return types.MovieID(strconv.FormatInt(s.nextID, 10))
}
