package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/moviecli/internal/keybinds"
	"github.com/studiowebux/moviecli/internal/types"
	"github.com/studiowebux/moviecli/internal/viewmodel"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// updateLayout resizes the table to the window
func (m *Model) updateLayout() {
	tableWidth := m.tableWidth()
	m.table.SetColumns(columns(tableWidth - 2))
	m.table.SetWidth(tableWidth - 2)
	// header line, title, status bar and borders
	m.table.SetHeight(max(3, m.height-TableHeightGap))
}

func (m *Model) tableWidth() int {
	width := m.width - FormWidth - 4
	if width < MinTableWidth {
		width = MinTableWidth
	}
	return width
}

// renderMain renders the table, the form and the status bar
func (m *Model) renderMain() string {
	header := styleTitle.Render("Movies") + styleSubtle.Render("  "+m.baseURL)

	tableBorder, formBorder := colorGray, colorGray
	if m.mode == ModeForm {
		formBorder = colorGreen
	} else {
		tableBorder = colorGreen
	}

	tableBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tableBorder).
		Width(m.tableWidth()).
		Height(m.height - MainHeightOffset).
		Render(m.renderTable())

	formBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(formBorder).
		Width(FormWidth).
		Height(m.height - MainHeightOffset).
		Render(m.renderForm())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tableBox, formBox),
		m.renderStatusBar(),
	)
}

func (m *Model) renderTable() string {
	if !m.state.Loaded() {
		return styleSubtle.Render("Loading...")
	}
	if m.state.Len() == 0 {
		return styleSubtle.Render("No movies yet. Press n to add one.")
	}
	if len(m.visible) == 0 {
		return styleSubtle.Render(fmt.Sprintf("No movies match %q", m.searchQuery))
	}
	return m.table.View()
}

func (m *Model) renderForm() string {
	var b strings.Builder

	if target, editing := m.state.EditTarget(); editing {
		b.WriteString(styleWarning.Render(fmt.Sprintf("Editing #%s", target)))
	} else {
		b.WriteString(styleTitle.Render("New movie"))
	}
	b.WriteString("\n\n")

	for i, field := range types.DraftFields {
		label := fieldLabel(field)
		if m.mode == ModeForm && i == m.focus {
			label = styleSuccess.Render("> " + label)
		} else {
			label = styleSubtle.Render("  " + label)
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + m.inputs[i].View() + "\n\n")
	}

	if m.pendingDelete != nil {
		b.WriteString(styleError.Render(fmt.Sprintf("Delete %q (%d)?", m.pendingDelete.Title, m.pendingDelete.Year)))
		b.WriteString("\n")
		b.WriteString(styleSubtle.Render("y/enter confirm, any other key cancels"))
		return b.String()
	}

	submit := m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionSubmit)
	cancel := m.keybinds.GetBindingString(keybinds.ContextForm, keybinds.ActionCancel)
	verb := "create"
	if m.state.Mode() == viewmodel.Editing {
		verb = "save"
	}
	b.WriteString(styleSubtle.Render(fmt.Sprintf("%s %s | %s cancel", submit, verb, cancel)))

	return b.String()
}

func fieldLabel(field types.Field) string {
	switch field {
	case types.FieldYear:
		return "Year"
	case types.FieldGenre:
		return "Genre"
	}
	return "Title"
}

// renderStatusBar renders the profile on the left and messages on the right
func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("Profile: %s", m.profileName())
	if m.state.Loaded() {
		left += " | " + pluralize(m.state.Len(), "movie")
	}
	if m.inFlight > 0 {
		left += styleWarning.Render(" ●")
	}

	right := ""
	switch {
	case m.mode == ModeSearch:
		right = "Search: " + m.searchInput.View()
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		right = styleSubtle.Render("/ search | ? help | q quit")
	}
	if m.searchQuery != "" && m.mode != ModeSearch {
		right = styleWarning.Render(fmt.Sprintf("Search: %d of %d | ", len(m.visible), m.state.Len())) + right
	}

	// Center spacing
	spacing := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right
}

func (m *Model) profileName() string {
	if m.profile == nil || m.profile.Name == "" {
		return "default"
	}
	return m.profile.Name
}

// renderHelp lists the bindings of each context
func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Movie CLI - Keyboard Shortcuts"))
	b.WriteString("\n")

	sections := []struct {
		title   string
		context keybinds.Context
	}{
		{"TABLE", keybinds.ContextTable},
		{"FORM", keybinds.ContextForm},
		{"SEARCH", keybinds.ContextSearch},
	}

	for _, section := range sections {
		b.WriteString("\n" + styleWarning.Render(section.title) + "\n")

		// Group keys by action, keeping first-seen order
		var order []keybinds.Action
		keys := make(map[keybinds.Action][]string)
		for _, binding := range m.keybinds.ListBindings(section.context) {
			if binding.Action == keybinds.ActionNoOp || binding.Action == keybinds.ActionGoToTopPrepare {
				continue
			}
			if _, seen := keys[binding.Action]; !seen {
				order = append(order, binding.Action)
			}
			keys[binding.Action] = append(keys[binding.Action], binding.Key)
		}

		for _, action := range order {
			info := keybinds.GetActionInfo(action)
			fmt.Fprintf(&b, "  %-16s %s\n", strings.Join(keys[action], ", "), info.Description)
		}
	}

	b.WriteString("\n" + styleSubtle.Render("Press any key to close"))
	return b.String()
}
