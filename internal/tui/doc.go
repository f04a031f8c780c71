/*
Package tui implements the terminal user interface for the movie collection.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern on top
of the viewmodel package:
  - Model: holds a viewmodel.State snapshot plus purely visual state
    (table cursor, focused input, search query, status line)
  - Update: translates keys into viewmodel events and feeds effect
    outcomes back through viewmodel.Reduce
  - View: renders the table, the form and the status bar

# Key Components

  - model.go: Model struct, construction and the Update loop
  - keys.go: keyboard input handling and keybind routing per mode
  - actions.go: dispatching events and running effects as tea.Cmd
  - render.go: view rendering
  - error_categorizer.go: user-facing messages for gateway failures

# Threading Model

The TUI runs in Bubble Tea's event loop. Each gateway call runs inside a
tea.Cmd goroutine and reports back with an effectDoneMsg; the view-model
state is only ever touched on the event loop.

# Keybind System

Keys are resolved through keybinds.Registry in the table, form or search
context, falling back to the global one. Users override them in
keybinds.json.
*/
package tui
