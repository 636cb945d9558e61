// Package destination writes aggregated search records to where the user
// asked for them.
package destination

import (
	"fmt"
	"strings"
)

// Destination is the closed set of report targets.
type Destination string

const (
	Current Destination = "current"
	NewNote Destination = "newnote"
	Log     Destination = "log"
	Cancel  Destination = "cancel"
)

// Option is one entry in the interactive destination chooser.
type Option struct {
	Code  Destination
	Label string
}

// Options lists the choices offered to the user. The current-note choice is
// only offered when a current note is known.
func Options(hasCurrent bool) []Option {
	opts := make([]Option, 0, 4)
	if hasCurrent {
		opts = append(opts, Option{Code: Current, Label: "Add/Update the current open note"})
	}
	return append(opts,
		Option{Code: NewNote, Label: "Create/update a note in the search folder"},
		Option{Code: Log, Label: "Write to the log"},
		Option{Code: Cancel, Label: "Cancel"},
	)
}

// Parse maps a destination code to its Destination.
func Parse(code string) (Destination, error) {
	switch d := Destination(strings.ToLower(strings.TrimSpace(code))); d {
	case Current, NewNote, Log, Cancel:
		return d, nil
	default:
		return "", &UnrecognizedDestinationError{Code: code}
	}
}

func (d Destination) String() string { return string(d) }

type UnrecognizedDestinationError struct {
	Code string
}

func (e *UnrecognizedDestinationError) Error() string {
	return fmt.Sprintf("unrecognised destination %q (want current, newnote, log or cancel)", e.Code)
}

// DestinationWriteError reports a failed write to a destination.
type DestinationWriteError struct {
	Destination Destination
	Path        string
	Err         error
}

func (e *DestinationWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("writing %s results: %v", e.Destination, e.Err)
	}
	return fmt.Sprintf("writing %s results to %s: %v", e.Destination, e.Path, e.Err)
}

func (e *DestinationWriteError) Unwrap() error { return e.Err }
