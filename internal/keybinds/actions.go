package keybinds

import "sort"

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the part of the screen in which keybindings are active
type Context string

const (
	ContextGlobal Context = "global" // Available everywhere
	ContextTable  Context = "table"  // Movie table focused
	ContextForm   Context = "form"   // Form field focused
	ContextSearch Context = "search" // Search input focused
)

// Contexts lists every built-in context
var Contexts = []Context{ContextGlobal, ContextTable, ContextForm, ContextSearch}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Table navigation
	ActionNavigateUp     Action = "navigate_up"       // Move up one row
	ActionNavigateDown   Action = "navigate_down"     // Move down one row
	ActionGoToTop        Action = "go_to_top"         // First row
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence
	ActionGoToBottom     Action = "go_to_bottom"      // Last row

	// Table operations
	ActionEdit            Action = "edit"              // Load the selected movie into the form
	ActionDelete          Action = "delete"            // Delete the selected movie
	ActionFocusForm       Action = "focus_form"        // Move focus to the form
	ActionRefresh         Action = "refresh"           // Re-fetch the collection
	ActionOpenSearch      Action = "open_search"       // Start fuzzy search
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy the selected movie as JSON
	ActionToggleHelp      Action = "toggle_help"       // Show or hide the key help

	// Form
	ActionNextField Action = "next_field" // Focus next field
	ActionPrevField Action = "prev_field" // Focus previous field
	ActionSubmit    Action = "submit"     // Submit the draft
	ActionCancel    Action = "cancel"     // Cancel the edit, or leave the form

	// Search
	ActionSearchApply Action = "search_apply" // Keep the filtered rows and return to the table
	ActionSearchClear Action = "search_clear" // Clear the filter and return to the table

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit", "Global"},
	ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:      {ActionNavigateUp, "Move up", "Navigation"},
	ActionNavigateDown:    {ActionNavigateDown, "Move down", "Navigation"},
	ActionGoToTop:         {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToTopPrepare:  {ActionGoToTopPrepare, "Start 'gg'", "Navigation"},
	ActionGoToBottom:      {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionEdit:            {ActionEdit, "Edit movie", "Movies"},
	ActionDelete:          {ActionDelete, "Delete movie", "Movies"},
	ActionFocusForm:       {ActionFocusForm, "New movie", "Movies"},
	ActionRefresh:         {ActionRefresh, "Refresh", "Movies"},
	ActionOpenSearch:      {ActionOpenSearch, "Search", "Movies"},
	ActionCopyToClipboard: {ActionCopyToClipboard, "Copy as JSON", "Movies"},
	ActionToggleHelp:      {ActionToggleHelp, "Help", "Global"},
	ActionNextField:       {ActionNextField, "Next field", "Form"},
	ActionPrevField:       {ActionPrevField, "Previous field", "Form"},
	ActionSubmit:          {ActionSubmit, "Save", "Form"},
	ActionCancel:          {ActionCancel, "Cancel", "Form"},
	ActionSearchApply:     {ActionSearchApply, "Apply search", "Search"},
	ActionSearchClear:     {ActionSearchClear, "Clear search", "Search"},
	ActionNoOp:            {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is one of the built-in actions
func IsKnownAction(action Action) bool {
	_, ok := actionInfos[action]
	return ok
}

// KnownActions returns every built-in action, sorted
func KnownActions() []Action {
	actions := make([]Action, 0, len(actionInfos))
	for a := range actionInfos {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}
