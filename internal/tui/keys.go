package tui

import (
	"fmt"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/moviecli/internal/keybinds"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeTable:
		return m.handleTableKeys(msg)
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}
	return nil
}

func (m *Model) handleTableKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextTable, msg.String())
	if partial || !ok {
		// Waiting for the second key of a sequence, or unbound
		return nil
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionNavigateUp:
		m.table.MoveUp(1)

	case keybinds.ActionNavigateDown:
		m.table.MoveDown(1)

	case keybinds.ActionGoToTop:
		m.table.GotoTop()

	case keybinds.ActionGoToBottom:
		m.table.GotoBottom()

	case keybinds.ActionEdit:
		m.errorMsg = ""
		return m.startEdit()

	case keybinds.ActionDelete:
		movie, ok := m.selected()
		if !ok {
			m.setErrorMessage("No movie selected")
			return nil
		}
		m.pendingDelete = &movie
		m.mode = ModeConfirmDelete

	case keybinds.ActionFocusForm:
		m.enterForm()

	case keybinds.ActionRefresh:
		m.errorMsg = ""
		m.setStatusMessage("Refreshing...")
		return m.dispatch(viewmodel.RefreshRequested{})

	case keybinds.ActionOpenSearch:
		m.mode = ModeSearch
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()

	case keybinds.ActionCopyToClipboard:
		m.copySelected()

	case keybinds.ActionToggleHelp:
		m.prevMode = m.mode
		m.mode = ModeHelp

	case keybinds.ActionCancel:
		if m.searchQuery != "" {
			m.applySearch("")
			m.setStatusMessage("Search cleared")
			return nil
		}
		if m.state.Mode() == viewmodel.Editing {
			m.setStatusMessage("Edit cancelled")
		}
		return m.dispatch(viewmodel.CancelClicked{})
	}

	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextForm, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit

		case keybinds.ActionNextField:
			m.focusField(m.focus + 1)
			return nil

		case keybinds.ActionPrevField:
			m.focusField(m.focus - 1)
			return nil

		case keybinds.ActionSubmit:
			m.errorMsg = ""
			if target, editing := m.state.EditTarget(); editing {
				m.setStatusMessage(fmt.Sprintf("Updating movie %s...", target))
			} else {
				m.setStatusMessage("Creating movie...")
			}
			return m.dispatch(viewmodel.Submitted{})

		case keybinds.ActionCancel:
			m.leaveForm()
			if m.state.Mode() == viewmodel.Editing {
				m.setStatusMessage("Edit cancelled")
				return m.dispatch(viewmodel.CancelClicked{})
			}
			return nil

		case keybinds.ActionNoOp:
			return nil
		}
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards a key to the focused input and reports the
// new value to the view-model
func (m *Model) updateFocusedInput(msg tea.KeyMsg) tea.Cmd {
	field := types.DraftFields[m.focus]
	if field == types.FieldYear && !acceptsYearKey(msg) {
		return nil
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if after := m.inputs[m.focus].Value(); after != before {
		return tea.Batch(cmd, m.dispatch(viewmodel.FieldEdited{Field: field, Value: after}))
	}
	return cmd
}

// acceptsYearKey rejects printable input other than digits
func acceptsYearKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeySpace:
		return false
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextSearch, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit

		case keybinds.ActionSearchApply:
			m.mode = ModeTable
			m.searchInput.Blur()
			if m.searchQuery != "" {
				m.setStatusMessage(fmt.Sprintf("Search: %d of %d", len(m.visible), m.state.Len()))
			}
			return nil

		case keybinds.ActionSearchClear:
			m.mode = ModeTable
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.applySearch("")
			return nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if q := m.searchInput.Value(); q != m.searchQuery {
		m.applySearch(q)
	}
	return cmd
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(m.prevMode.keyContext(), msg.String()); ok && action == keybinds.ActionQuitForce {
		return tea.Quit
	}
	// Any other key closes help
	m.mode = m.prevMode
	return nil
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) tea.Cmd {
	movie := m.pendingDelete
	m.pendingDelete = nil
	m.mode = ModeTable

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "y", "Y", "enter":
		m.errorMsg = ""
		m.setStatusMessage(fmt.Sprintf("Deleting movie %s...", movie.ID))
		return m.dispatch(viewmodel.DeleteClicked{ID: movie.ID})
	}

	m.setStatusMessage("Delete cancelled")
	return nil
}
