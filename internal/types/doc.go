/*
Package types defines core data structures used throughout moviecli.

# Overview

The types package provides shared type definitions for:
  - Movie records mirrored from the remote collection
  - The form draft and its validation
  - Configuration (profiles, TLS, session)
  - The gateway call journal

# Records

Movie:
  - A single record owned by the remote store
  - The client only ever holds a disposable copy
  - ID is opaque and assigned by the server

MovieID and Year decode leniently: an id may arrive as a JSON string or number,
and a year may arrive as a number or a numeric string. Both keep a single
canonical in-memory form.

# Draft

Draft is the form's working state. All fields are strings so the form can hold
partial input. Payload converts a draft into the wire body, coercing the year
to a number before encoding.

	draft := types.Draft{Title: "Dune", Year: "1984", Genre: "Sci-Fi"}
	if err := draft.Validate(); err != nil {
		return err
	}
	payload, err := draft.Payload()

# Configuration

Profile:
  - Base URL of the movies resource
  - Optional request timeout (empty means none)
  - TLS configuration
  - Preferred output format for CLI commands

# Field Tags

Types persisted to disk or sent over the wire carry JSON tags (and YAML tags
where they are read from import files). Optional fields use omitempty.
*/
package types
