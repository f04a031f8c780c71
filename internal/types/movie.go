package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MovieID is an opaque, server-assigned identifier.
// It is kept in its textual form whatever JSON type the server used.
type MovieID string

// UnmarshalJSON accepts both JSON strings and JSON numbers
func (id *MovieID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*id = MovieID(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*id = MovieID(num.String())
		return nil
	}

	return fmt.Errorf("movie id must be a string or a number, got %s", string(data))
}

// String returns the textual id
func (id MovieID) String() string {
	return string(id)
}

// Year is a release year. The wire form is a JSON number, but numeric
// strings are accepted on decode.
type Year int

// UnmarshalJSON accepts a JSON number (2016 or 2016.0), a numeric JSON
// string, an empty string or null
func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = 0
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		n, err := parseYear(num.String())
		if err != nil {
			return err
		}
		*y = Year(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("year must be a number or a numeric string, got %s", string(data))
	}

	str = strings.TrimSpace(str)
	if str == "" {
		*y = 0
		return nil
	}

	n, err := parseYear(str)
	if err != nil {
		return err
	}
	*y = Year(n)
	return nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON in import files
func (y *Year) UnmarshalYAML(value *yaml.Node) error {
	str := strings.TrimSpace(value.Value)
	if str == "" || value.Tag == "!!null" {
		*y = 0
		return nil
	}
	n, err := parseYear(str)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*y = Year(n)
	return nil
}

// parseYear reads a whole number written as an integer or as an integral
// float such as 2016.0
func parseYear(str string) (int, error) {
	if n, err := strconv.Atoi(str); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("year must be a whole number, got %q", str)
	}
	return int(f), nil
}

// String renders the year the way the form holds it (empty for zero)
func (y Year) String() string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(int(y))
}

// Field names a user-editable field of a movie
type Field string

const (
	FieldTitle Field = "title"
	FieldYear  Field = "year"
	FieldGenre Field = "genre"
)

// DraftFields lists the editable fields in form order
var DraftFields = []Field{FieldTitle, FieldYear, FieldGenre}

// Draft is the form's in-progress copy of a movie's editable fields
type Draft struct {
	Title string `json:"title"`
	Year  string `json:"year"`
	Genre string `json:"genre"`
}

// DraftFromMovie copies a movie's editable fields into a new draft
func DraftFromMovie(m Movie) Draft {
	return Draft{
		Title: m.Title,
		Year:  m.Year.String(),
		Genre: m.Genre,
	}
}

// IsEmpty reports whether every field is blank
func (d Draft) IsEmpty() bool {
	return d == Draft{}
}

// Get returns the value of a field
func (d Draft) Get(field Field) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldYear:
		return d.Year
	case FieldGenre:
		return d.Genre
	}
	return ""
}

// Set returns a copy of the draft with one field replaced.
// Unknown fields leave the draft unchanged.
func (d Draft) Set(field Field, value string) Draft {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldYear:
		d.Year = value
	case FieldGenre:
		d.Genre = value
	}
	return d
}

// FieldError describes one invalid draft field
type FieldError struct {
	Field   Field
	Message string
}

// ValidationError lists every invalid field of a draft
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "invalid movie: " + strings.Join(parts, ", ")
}

// Has reports whether the given field failed validation
func (e *ValidationError) Has(field Field) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks required fields and the year bounds.
// It returns a *ValidationError or nil.
func (d Draft) Validate() error {
	var verr ValidationError

	if strings.TrimSpace(d.Title) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: FieldTitle, Message: "is required"})
	}

	year := strings.TrimSpace(d.Year)
	if year == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: FieldYear, Message: "is required"})
	} else if n, err := strconv.Atoi(year); err != nil {
		verr.Fields = append(verr.Fields, FieldError{Field: FieldYear, Message: "must be a number"})
	} else if n < MinYear || n > MaxYear {
		verr.Fields = append(verr.Fields, FieldError{
			Field:   FieldYear,
			Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
		})
	}

	if strings.TrimSpace(d.Genre) == "" {
		verr.Fields = append(verr.Fields, FieldError{Field: FieldGenre, Message: "is required"})
	}

	if len(verr.Fields) > 0 {
		return &verr
	}
	return nil
}

// ErrYearNotNumeric is returned by Payload when the year cannot be coerced
var ErrYearNotNumeric = errors.New("year is not numeric")

// Payload builds the wire body, coercing the year to a number
func (d Draft) Payload() (MoviePayload, error) {
	year, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil {
		return MoviePayload{}, fmt.Errorf("%w: %q", ErrYearNotNumeric, d.Year)
	}
	return MoviePayload{
		Title: d.Title,
		Year:  year,
		Genre: d.Genre,
	}, nil
}
