// Package sanitize cleans raw log payloads before parsing. Services
// frequently emit colorized output; ANSI sequences in a message or stack
// trace would otherwise leak into fingerprints and LLM prompts.
//
// This package handles ingest-side cleanup. The TUI has its own ANSI
// handling via charmbracelet/x/ansi.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// ANSI escape codes: \x1b[...m (SGR sequences)
	ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

	// OSC sequences terminated by BEL, e.g. terminal title updates.
	oscPattern = regexp.MustCompile(`\x1b\][^\x07]*\x07`)
)

// StripANSI removes ANSI SGR and OSC escape sequences.
func StripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = ansiPattern.ReplaceAllString(s, "")
	return s
}

// Clean strips escape sequences, normalizes CRLF to LF, and trims
// trailing whitespace. Applied to every raw payload before parsing.
func Clean(s string) string {
	s = StripANSI(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}
