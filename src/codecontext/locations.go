package codecontext

import (
	"regexp"
	"strconv"
	"strings"

	"patrol-agent/src/contracts"
	"patrol-agent/src/fingerprint"
)

// Stack-trace location patterns. The rules are inherently format-specific
// pattern matching; they live here so they can be swapped without touching
// orchestration logic.
var (
	// Node/JS style: "at getUserById (src/handlers/user.ts:45:15)" or bare
	// "src/handlers/user.ts:45:15".
	parenFrame = regexp.MustCompile(`\(([^()\s]+?\.(?:py|js|jsx|ts|tsx|java|go|rb|php|cs|c|cc|cpp|h|hpp|rs)):(\d+)(?::\d+)?\)`)
	bareFrame  = regexp.MustCompile(`([^\s()]+?\.(?:py|js|jsx|ts|tsx|java|go|rb|php|cs|c|cc|cpp|h|hpp|rs)):(\d+)(?::\d+)?`)

	// Python style: File "path/to/mod.py", line 123
	pythonFrame = regexp.MustCompile(`File ["']([^"']+?\.py)["'], line (\d+)`)
)

// ExtractLocations collects up to maxLocations code locations for a record:
// the record's own file/line first (when present), then locations parsed
// from the stack trace top-to-bottom. Duplicates (same file+line) and
// non-repository frames (node:, internal/, <anonymous>) are skipped.
func ExtractLocations(record contracts.ErrorRecord, maxLocations int) []contracts.CodeLocation {
	if maxLocations <= 0 {
		return nil
	}

	type rawLoc struct {
		path string
		line int
	}
	var raw []rawLoc

	if record.FilePath != "" {
		raw = append(raw, rawLoc{path: record.FilePath, line: record.LineNumber})
	}

	// Walk the trace line by line so a mixed-format trace keeps its
	// top-to-bottom frame order. Within a line the most specific pattern
	// wins; bareFrame would also match the inside of a paren frame.
	for _, traceLine := range strings.Split(record.StackTrace, "\n") {
		matches := parenFrame.FindAllStringSubmatch(traceLine, -1)
		if matches == nil {
			matches = pythonFrame.FindAllStringSubmatch(traceLine, -1)
		}
		if matches == nil {
			matches = bareFrame.FindAllStringSubmatch(traceLine, -1)
		}
		for _, m := range matches {
			line, _ := strconv.Atoi(m[2])
			raw = append(raw, rawLoc{path: m[1], line: line})
		}
	}

	seen := make(map[string]bool)
	var locations []contracts.CodeLocation

	for _, r := range raw {
		path := fingerprint.NormalizeFilePath(r.path)
		if path == "" || skipFrame(path) {
			continue
		}

		key := path + ":" + strconv.Itoa(r.line)
		if seen[key] {
			continue
		}
		seen[key] = true

		locations = append(locations, contracts.CodeLocation{FilePath: path, LineNumber: r.line})
		if len(locations) >= maxLocations {
			break
		}
	}

	return locations
}

// skipFrame reports whether a path belongs to runtime internals rather than
// the target repository.
func skipFrame(path string) bool {
	return strings.HasPrefix(path, "<") ||
		strings.HasPrefix(path, "node:") ||
		strings.HasPrefix(path, "internal/") ||
		strings.Contains(path, "node_modules/")
}
