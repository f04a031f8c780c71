package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/moviecli/internal/gateway"
	"github.com/studiowebux/moviecli/internal/history"
	"github.com/studiowebux/moviecli/internal/types"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// colorEnabled reports whether w is a terminal that should get colors
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// format picks the output format: flag, then profile default, then text on
// a terminal and json when piped
func (a *App) format(requested string) string {
	if requested != "" {
		return strings.ToLower(requested)
	}
	if a.Output != "" {
		return strings.ToLower(a.Output)
	}
	if f, ok := a.Out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return FormatText
	}
	return FormatJSON
}

// ValidFormat reports whether format is a known output format
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", FormatJSON, FormatYAML, FormatText:
		return true
	}
	return false
}

// highlight writes source, colorized with the given chroma lexer when color is on
func highlight(w io.Writer, source, lexer string, color bool) error {
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	if color {
		if err := quick.Highlight(w, source, lexer, "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err := io.WriteString(w, source)
	return err
}

// writeStructured renders v as json or yaml
func writeStructured(w io.Writer, v any, format string, color bool) error {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		return highlight(w, string(data), "yaml", color)
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return highlight(w, string(data), "json", color)
	}
	return fmt.Errorf("unknown output format %q (use json, yaml or text)", format)
}

// writeMovies prints a movie list
func writeMovies(w io.Writer, movies []types.Movie, format string, color bool) error {
	if format != FormatText {
		if movies == nil {
			movies = []types.Movie{}
		}
		return writeStructured(w, movies, format, color)
	}

	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "No movies")
		return err
	}

	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, []string{m.ID.String(), m.Title, m.Year.String(), m.Genre})
	}
	_, err := fmt.Fprintln(w, renderTable([]string{"ID", "TITLE", "YEAR", "GENRE"}, rows, color, nil))
	return err
}

// writeDocument prints the result of a filter or query that is not a movie
// list. Text output falls back to indented JSON.
func writeDocument(w io.Writer, doc string, format string, color bool) error {
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		// Shell queries may print anything
		_, err := io.WriteString(w, doc)
		return err
	}

	if format == FormatText {
		format = FormatJSON
	}
	return writeStructured(w, v, format, color)
}

// writeCalls prints journaled gateway calls
func writeCalls(w io.Writer, calls []types.CallRecord, format string, color bool) error {
	if format != FormatText {
		if calls == nil {
			calls = []types.CallRecord{}
		}
		return writeStructured(w, calls, format, color)
	}

	if len(calls) == 0 {
		_, err := fmt.Fprintln(w, "No history")
		return err
	}

	failed := make(map[int]bool)
	rows := make([][]string, 0, len(calls))
	for i, c := range calls {
		status := strconv.Itoa(c.Status)
		if c.Error != "" {
			status = "ERR"
		}
		if !c.Succeeded() {
			failed[i] = true
		}
		rows = append(rows, []string{
			c.Timestamp.Local().Format(time.DateTime),
			c.ProfileName,
			string(c.Operation),
			c.Method,
			status,
			gateway.FormatDuration(c.Duration),
			c.URL,
		})
	}

	headers := []string{"TIME", "PROFILE", "OP", "METHOD", "STATUS", "DURATION", "URL"}
	_, err := fmt.Fprintln(w, renderTable(headers, rows, color, failed))
	return err
}

// writeStats prints per-operation aggregates
func writeStats(w io.Writer, stats []types.OperationStats, format string, color bool) error {
	if format != FormatText {
		if stats == nil {
			stats = []types.OperationStats{}
		}
		return writeStructured(w, stats, format, color)
	}

	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No history")
		return err
	}

	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			string(s.Operation),
			strconv.Itoa(s.TotalCalls),
			strconv.Itoa(s.FailedCalls),
			fmt.Sprintf("%.0f%%", history.SuccessRate(s)),
			gateway.FormatDuration(int64(s.AvgDurationMs)),
			gateway.FormatDuration(s.MinDurationMs),
			gateway.FormatDuration(s.MaxDurationMs),
			s.LastCalled.Local().Format(time.DateTime),
		})
	}
	headers := []string{"OP", "CALLS", "FAILED", "SUCCESS", "AVG", "MIN", "MAX", "LAST"}
	_, err := fmt.Fprintln(w, renderTable(headers, rows, color, nil))
	return err
}

// renderTable lays rows out with lipgloss. Rows listed in failed are
// highlighted when color is on.
func renderTable(headers []string, rows [][]string, color bool, failed map[int]bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)

	if color {
		t = t.BorderStyle(borderStyle).StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row]:
				return failedStyle
			}
			return cellStyle
		})
	} else {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		})
	}

	return t.Render()
}
