package tui

import (
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/moviecli/internal/keybinds"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// Mode represents the focused part of the screen
type Mode int

const (
	ModeTable Mode = iota
	ModeForm
	ModeSearch
	ModeHelp
	ModeConfirmDelete
)

// keyContext maps a mode to the keybinding context it reads keys from
func (m Mode) keyContext() keybinds.Context {
	switch m {
	case ModeForm:
		return keybinds.ContextForm
	case ModeSearch:
		return keybinds.ContextSearch
	}
	return keybinds.ContextTable
}

// Options configures a Model
type Options struct {
	Gateway  viewmodel.Gateway
	Logger   *slog.Logger
	Keybinds *keybinds.Registry // defaults when nil
	Profile  *types.Profile
	BaseURL  string
}

// Model represents the TUI state
type Model struct {
	// Core state
	state    viewmodel.State
	runner   *viewmodel.Runner
	keybinds *keybinds.Registry
	profile  *types.Profile
	baseURL  string
	mode     Mode
	prevMode Mode // restored when help closes

	// Table
	table   table.Model
	visible []int // collection indices shown, in order

	// Form
	inputs []textinput.Model // one per types.DraftFields entry
	focus  int

	// Search
	searchInput textinput.Model
	searchQuery string

	pendingDelete *types.Movie
	inFlight      int

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string

	copyText func(string) error
}

// New creates a new TUI model
func New(opts Options) *Model {
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}

	m := &Model{
		state:       viewmodel.NewState(),
		runner:      viewmodel.NewRunner(opts.Gateway, opts.Logger),
		keybinds:    registry,
		profile:     opts.Profile,
		baseURL:     opts.BaseURL,
		mode:        ModeTable,
		table:       newTable(),
		searchInput: newInput("fuzzy search", SearchCharLimit),
		copyText:    clipboard.WriteAll,
	}

	for _, field := range types.DraftFields {
		limit := InputCharLimit
		if field == types.FieldYear {
			limit = 4
		}
		m.inputs = append(m.inputs, newInput(fieldPlaceholder(field), limit))
	}

	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func fieldPlaceholder(field types.Field) string {
	switch field {
	case types.FieldYear:
		return "1900-2099"
	case types.FieldGenre:
		return "Drama"
	}
	return "Title"
}

func newTable() table.Model {
	t := table.New(
		table.WithColumns(columns(60)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styleSelected
	t.SetStyles(styles)

	return t
}

// columns sizes the table columns for the given inner width
func columns(width int) []table.Column {
	const idWidth, yearWidth, genreWidth, padding = 6, 6, 14, 8
	title := width - idWidth - yearWidth - genreWidth - padding
	if title < 10 {
		title = 10
	}
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Title", Width: title},
		{Title: "Year", Width: yearWidth},
		{Title: "Genre", Width: genreWidth},
	}
}

// Init loads the collection
func (m *Model) Init() tea.Cmd {
	m.statusMsg = "Loading movies..."
	return m.dispatch(viewmodel.Mounted{})
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case effectDoneMsg:
		m.inFlight--
		if msg.event != nil {
			m.announce(msg.event)
			cmd = m.dispatch(msg.event)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.mode == ModeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// State returns the current view-model snapshot
func (m *Model) State() viewmodel.State {
	return m.state
}

// Custom message types
type effectDoneMsg struct {
	event viewmodel.Event // nil when the effect produced none
}

// announce reflects an effect outcome in the status line
func (m *Model) announce(ev viewmodel.Event) {
	switch e := ev.(type) {
	case viewmodel.ListLoaded:
		m.errorMsg = ""
		if m.statusMsg == "Loading movies..." || m.statusMsg == "Refreshing..." {
			m.setStatusMessage(pluralize(len(e.Movies), "movie") + " loaded")
		}
	case viewmodel.MutationSucceeded:
		m.errorMsg = ""
		switch e.Op {
		case types.OpCreate:
			m.setStatusMessage("Movie created")
		case types.OpUpdate:
			m.setStatusMessage("Movie updated")
			if m.mode == ModeForm {
				m.leaveForm()
			}
		case types.OpDelete:
			m.setStatusMessage("Movie deleted")
		}
	}
}

// Helper methods for the status line
func (m *Model) setStatusMessage(msg string) {
	m.statusMsg = truncate(msg, StatusMaxLength)
}

func (m *Model) setErrorMessage(msg string) {
	m.errorMsg = truncate(msg, StatusMaxLength)
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n-3]) + "..."
	}
	return s
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
