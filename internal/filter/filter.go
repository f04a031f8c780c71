// Package filter narrows and reshapes movie listings: JMESPath filters and
// queries for the CLI, fuzzy matching for interactive search.
package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/moviecli/internal/types"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply applies filter and query expressions to a JSON document.
// Filter narrows results (e.g., [?year > `2000`])
// Query transforms/selects fields (e.g., [].title)
// If query starts with $(...), it's executed as a shell command with the document piped to stdin
func Apply(body string, filter string, query string) (string, error) {
	result := body

	if filter != "" {
		filtered, err := applyJMESPath(result, filter)
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query != "" {
		if matches := shellPattern.FindStringSubmatch(query); len(matches) > 1 {
			queried, err := executeShellCommand(result, matches[1])
			if err != nil {
				return "", fmt.Errorf("failed to execute query shell command: %w", err)
			}
			result = queried
		} else {
			queried, err := applyJMESPath(result, query)
			if err != nil {
				return "", fmt.Errorf("failed to apply query: %w", err)
			}
			result = queried
		}
	}

	return result, nil
}

// Movies applies a JMESPath filter to a collection. It reports false when the
// expression reshaped the collection into something that is no longer a
// list of movies; callers then fall back to the raw document.
func Movies(movies []types.Movie, filter string) ([]types.Movie, string, bool, error) {
	data, err := json.Marshal(movies)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to encode movies: %w", err)
	}

	doc, err := Apply(string(data), filter, "")
	if err != nil {
		return nil, "", false, err
	}

	var out []types.Movie
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil || !isMovieList(doc) {
		return nil, doc, false, nil
	}
	if out == nil {
		out = []types.Movie{}
	}

	return out, doc, true, nil
}

// isMovieList reports whether doc is an array of objects carrying an id
func isMovieList(doc string) bool {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &items); err != nil {
		return false
	}
	for _, item := range items {
		if _, ok := item["id"]; !ok {
			return false
		}
	}
	return true
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

// executeShellCommand executes a shell command with the body piped to stdin
func executeShellCommand(body string, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if a query is a shell command (starts with $(...))
func IsShellCommand(query string) bool {
	return shellPattern.MatchString(query)
}

// searchSource exposes movies to the fuzzy matcher as "title year genre"
type searchSource []types.Movie

func (s searchSource) String(i int) string {
	m := s[i]
	return strings.Join([]string{m.Title, m.Year.String(), m.Genre}, " ")
}

func (s searchSource) Len() int {
	return len(s)
}

// Fuzzy returns the indices of the movies matching pattern, best match
// first. An empty pattern matches every movie in collection order.
func Fuzzy(movies []types.Movie, pattern string) []int {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		all := make([]int, len(movies))
		for i := range movies {
			all[i] = i
		}
		return all
	}

	matches := fuzzy.FindFrom(pattern, searchSource(movies))
	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	return indices
}
