/*
Package keybinds provides customizable keyboard binding management.

# Contexts

Bindings live in a context: table, form, search, or global. Matching checks
the focused context first and falls back to global, so a context binding
shadows a global one.

# Configuration File Format

Overrides are read from keybinds.json in the config directory. Each section
maps an action to a comma-separated key list; listing an action replaces its
default keys in that context:

	{
	  "version": "1.0",
	  "table": {
	    "delete": "x,delete",
	    "edit": "e,enter"
	  },
	  "form": {
	    "submit": "enter,ctrl+s"
	  }
	}

# Multi-Key Sequences

"gg" goes to the top of the table. A key bound to go_to_top_prepare starts
the sequence; any other key ends it.

# Validation

The validator reports keys given to two actions of one section, contexts
left without a way to submit, cancel or quit, and reserved keys (ctrl+c)
that were rebound.
*/
package keybinds
