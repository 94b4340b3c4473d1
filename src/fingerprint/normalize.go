// Package fingerprint turns error records into stable content fingerprints.
//
// The same underlying masking patterns are used with two levels:
//   - MaskFingerprint: aggressive normalization for dedup hashing (masks
//     numbers, paths, hashes) so two occurrences of the same bug collide.
//   - MaskPresentation: conservative normalization for display (preserves
//     line numbers and diagnostic detail).
package fingerprint

import (
	"regexp"
	"strings"
)

// MaskingLevel controls how aggressively message text is normalized.
type MaskingLevel int

const (
	// MaskPresentation preserves diagnostic details like line numbers.
	// Use for: MCP responses, TUI display, debugging output.
	MaskPresentation MaskingLevel = iota

	// MaskFingerprint aggressively normalizes for grouping identical errors.
	// Use for: dedup hashing, recurrence counting.
	// Example: "timeout after 1500ms" → "timeout after [NUM]ms"
	MaskFingerprint
)

// Shared regex patterns - compiled once at package init.
var (
	// timestampPattern matches ISO8601 and common log timestamps.
	// Matches: 2024-05-21T10:00:05.123Z, 2024-05-21 10:00:05,123, etc.
	timestampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}([.,]\d+)?(Z|[+-]\d{2}:?\d{2})?`)

	// uuidPattern matches standard UUIDs.
	uuidPattern = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)

	// longHashPattern matches long hex strings (container IDs, git SHAs, etc.)
	longHashPattern = regexp.MustCompile(`\b[a-f0-9]{12,}\b`)

	// hexAddressPattern matches 0x-prefixed memory addresses.
	hexAddressPattern = regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`)

	// quotedValuePattern matches single/double quoted literals embedded in
	// messages ("expected 'foo'", `key "bar" missing`).
	quotedValuePattern = regexp.MustCompile(`'[^']*'|"[^"]*"`)

	// numberPattern matches standalone numbers (word boundary prevents
	// matching within hashes).
	numberPattern = regexp.MustCompile(`\b\d+\b`)

	// longPathPattern matches absolute paths with 3+ directories, capturing
	// the filename and optional line number for preservation.
	longPathPattern = regexp.MustCompile(`/(?:[^/\s]+/){3,}([^/\s:]+(?::\d+)?)`)

	// whitespacePattern matches consecutive whitespace.
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize applies pattern normalization to a message line.
// The masking level determines how aggressively patterns are replaced.
func Normalize(line string, level MaskingLevel) string {
	line = stripTimestamps(line, level)
	line = maskUUIDs(line, level)
	line = maskHexAddresses(line, level)

	switch level {
	case MaskPresentation:
		line = compressPath(line)
		line = maskLongHashes(line)
	case MaskFingerprint:
		line = maskQuotedValues(line)
		line = maskAllPaths(line)
		line = maskLongHashes(line)
		line = maskNumbers(line)
	}

	return normalizeWhitespace(line)
}

func stripTimestamps(line string, level MaskingLevel) string {
	switch level {
	case MaskPresentation:
		// Strip leading timestamps entirely for cleaner display.
		if loc := timestampPattern.FindStringIndex(line); loc != nil && loc[0] < 5 {
			line = strings.TrimSpace(line[loc[1]:])
		}
		return line
	case MaskFingerprint:
		return timestampPattern.ReplaceAllString(line, "[TIMESTAMP]")
	}
	return line
}

func maskUUIDs(line string, level MaskingLevel) string {
	switch level {
	case MaskPresentation:
		return uuidPattern.ReplaceAllString(line, "<UUID>")
	case MaskFingerprint:
		return uuidPattern.ReplaceAllString(line, "[UUID]")
	}
	return line
}

func maskHexAddresses(line string, level MaskingLevel) string {
	switch level {
	case MaskPresentation:
		return hexAddressPattern.ReplaceAllString(line, "<HEX>")
	case MaskFingerprint:
		return hexAddressPattern.ReplaceAllString(line, "[HEX]")
	}
	return line
}

// compressPath shortens long paths preserving filename and line number.
// /var/lib/service/src/main.go:42 → .../main.go:42
func compressPath(line string) string {
	return longPathPattern.ReplaceAllString(line, ".../$1")
}

func maskLongHashes(line string) string {
	return longHashPattern.ReplaceAllString(line, "[HASH]")
}

// maskQuotedValues masks quoted literals so messages that embed runtime
// values ("user 'bob' not found") fingerprint identically.
func maskQuotedValues(line string) string {
	return quotedValuePattern.ReplaceAllString(line, "[VAR]")
}

func maskAllPaths(line string) string {
	return longPathPattern.ReplaceAllString(line, "[PATH]")
}

// maskNumbers masks standalone numbers, including line numbers, ports and
// durations, for grouping identical error patterns.
func maskNumbers(line string) string {
	return numberPattern.ReplaceAllString(line, "[NUM]")
}

func normalizeWhitespace(line string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
}
