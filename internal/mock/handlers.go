package mock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/studiowebux/moviecli/internal/types"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

// wireMovie renders ids as JSON numbers for the int style and strings otherwise
type wireMovie struct {
	ID    any    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Genre string `json:"genre"`
}

// movieInput accepts the year as a number or a string, so that non-numeric
// input can be reported as a validation failure instead of a decode failure
type movieInput struct {
	Title string          `json:"title"`
	Year  json.RawMessage `json:"year"`
	Genre string          `json:"genre"`
}

func (s *Server) toWire(m types.Movie) wireMovie {
	w := wireMovie{Title: m.Title, Year: int(m.Year), Genre: m.Genre}
	if s.config.IDStyle == IDStyleInt {
		if _, err := strconv.ParseInt(string(m.ID), 10, 64); err == nil {
			w.ID = json.Number(m.ID)
			return w
		}
	}
	w.ID = string(m.ID)
	return w
}

func (s *Server) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies := s.store.list()

	out := make([]wireMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, s.toWire(m))
	}

	// The list is a bare array, not an envelope
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)

	m, ok := s.store.get(id)
	if !ok {
		s.notFoundResponse(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, s.toWire(m))
}

func (s *Server) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.readPayload(w, r)
	if !ok {
		return
	}

	m := s.store.create(payload)

	w.Header().Set("Location", fmt.Sprintf("%s/%s", s.config.BasePath, m.ID))
	s.writeJSON(w, http.StatusCreated, s.toWire(m))
}

func (s *Server) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)

	if _, ok := s.store.get(id); !ok {
		s.notFoundResponse(w, r)
		return
	}

	payload, ok := s.readPayload(w, r)
	if !ok {
		return
	}

	m, ok := s.store.update(id, payload)
	if !ok {
		// Deleted concurrently
		s.notFoundResponse(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, s.toWire(m))
}

func (s *Server) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := readIDParam(r)

	if !s.store.remove(id) {
		s.notFoundResponse(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{"message": "movie successfully deleted"})
}

func readIDParam(r *http.Request) types.MovieID {
	params := httprouter.ParamsFromContext(r.Context())
	return types.MovieID(params.ByName("id"))
}

// readPayload decodes and validates a movie body, writing the error
// response itself when it returns false
func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (types.MoviePayload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var input movieInput
	if err := dec.Decode(&input); err != nil {
		s.badRequestResponse(w, r, describeDecodeError(err))
		return types.MoviePayload{}, false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		s.badRequestResponse(w, r, "body must only contain a single JSON value")
		return types.MoviePayload{}, false
	}

	draft := types.Draft{
		Title: input.Title,
		Year:  rawYear(input.Year),
		Genre: input.Genre,
	}

	if err := draft.Validate(); err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			s.failedValidationResponse(w, r, verr)
			return types.MoviePayload{}, false
		}
		s.badRequestResponse(w, r, err.Error())
		return types.MoviePayload{}, false
	}

	payload, err := draft.Payload()
	if err != nil {
		s.badRequestResponse(w, r, err.Error())
		return types.MoviePayload{}, false
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Genre = strings.TrimSpace(payload.Genre)

	return payload, true
}

// rawYear returns the year as the form would hold it. A JSON string is
// unquoted, anything else is kept as written so Validate can reject it.
func rawYear(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

func describeDecodeError(err error) string {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		return fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "body contains badly-formed JSON"
	case errors.As(err, &typeError):
		if typeError.Field != "" {
			return fmt.Sprintf("body contains incorrect JSON type for field %q", typeError.Field)
		}
		return fmt.Sprintf("body contains incorrect JSON type (at character %d)", typeError.Offset)
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return "body contains unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	case errors.As(err, &maxBytesError):
		return fmt.Sprintf("body must not be larger than %d bytes", maxBytesError.Limit)
	}
	return err.Error()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	s.writeJSON(w, status, envelope{"error": message})
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, message string) {
	s.errorResponse(w, r, http.StatusBadRequest, message)
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	s.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (s *Server) failedValidationResponse(w http.ResponseWriter, r *http.Request, verr *types.ValidationError) {
	fields := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		fields[string(f.Field)] = f.Message
	}
	s.errorResponse(w, r, http.StatusUnprocessableEntity, fields)
}
