package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/moviecli/internal/filter"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// dispatch reduces ev into the model and turns the resulting effects into
// commands. Each command runs on its own goroutine and reports back with an
// effectDoneMsg.
func (m *Model) dispatch(ev viewmodel.Event) tea.Cmd {
	next, effects := viewmodel.Reduce(m.state, ev)
	m.state = next
	m.syncInputs()
	m.syncTable()

	var cmds []tea.Cmd
	for _, eff := range effects {
		cmds = append(cmds, m.effectCmd(eff))
	}
	return tea.Batch(cmds...)
}

// effectCmd wraps one effect. Errors are reported right away on the loop.
func (m *Model) effectCmd(eff viewmodel.Effect) tea.Cmd {
	if report, ok := eff.(viewmodel.ReportError); ok {
		m.runner.Report(report)
		m.setErrorMessage(describeError(report.Op, report.Err))
		return nil
	}

	m.inFlight++
	runner := m.runner
	return func() tea.Msg {
		return effectDoneMsg{event: runner.Run(context.Background(), eff)}
	}
}

// syncInputs copies the draft into the form inputs when the reducer changed it.
// An input's limit grows to fit a longer stored value so it is never clipped.
func (m *Model) syncInputs() {
	draft := m.state.Draft()
	for i, field := range types.DraftFields {
		if want := draft.Get(field); m.inputs[i].Value() != want {
			if n := utf8.RuneCountInString(want); m.inputs[i].CharLimit > 0 && n > m.inputs[i].CharLimit {
				m.inputs[i].CharLimit = n
			}
			m.inputs[i].SetValue(want)
			m.inputs[i].CursorEnd()
		}
	}
}

// syncTable rebuilds the rows from the collection and the search query
func (m *Model) syncTable() {
	movies := m.state.Collection()
	m.visible = filter.Fuzzy(movies, m.searchQuery)

	rows := make([]table.Row, 0, len(m.visible))
	for _, i := range m.visible {
		movie := movies[i]
		rows = append(rows, table.Row{movie.ID.String(), movie.Title, movie.Year.String(), movie.Genre})
	}
	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// selected returns the movie under the table cursor
func (m *Model) selected() (types.Movie, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return types.Movie{}, false
	}
	return m.state.At(m.visible[c])
}

// focusField moves keyboard focus to input i
func (m *Model) focusField(i int) {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) enterForm() {
	m.mode = ModeForm
	m.table.Blur()
	m.focusField(m.focus)
}

func (m *Model) leaveForm() {
	m.mode = ModeTable
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Focus()
}

// startEdit loads the selected movie into the form
func (m *Model) startEdit() tea.Cmd {
	movie, ok := m.selected()
	if !ok {
		m.setErrorMessage("No movie selected")
		return nil
	}
	cmd := m.dispatch(viewmodel.EditClicked{Movie: movie})
	m.focus = 0
	m.enterForm()
	m.setStatusMessage(fmt.Sprintf("Editing %q", movie.Title))
	return cmd
}

// copySelected puts the selected movie on the clipboard as JSON
func (m *Model) copySelected() {
	movie, ok := m.selected()
	if !ok {
		m.setErrorMessage("No movie selected")
		return
	}

	data, err := json.MarshalIndent(movie, "", "  ")
	if err != nil {
		m.setErrorMessage(fmt.Sprintf("Failed to encode movie: %v", err))
		return
	}
	if err := m.copyText(string(data)); err != nil {
		m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
		return
	}
	m.setStatusMessage(fmt.Sprintf("Movie %s copied to clipboard", movie.ID))
}

// applySearch filters the table by the current search input
func (m *Model) applySearch(query string) {
	m.searchQuery = query
	m.syncTable()
	m.table.GotoTop()
}
