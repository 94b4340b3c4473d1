package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"patrol-agent/src/contracts"
)

// repoRootPattern strips build-host prefixes from absolute paths so the same
// file fingerprints identically across machines:
// /home/ci/build/src/handlers/user.ts → src/handlers/user.ts
var repoRootPattern = regexp.MustCompile(`^.*/(src|lib|app|apps|packages|services)/`)

// Fingerprint derives the stable content hash for an error record.
//
// It is a pure function of the record: deterministic across calls and
// process restarts, and it never fails - absent fields normalize to empty
// components. The composite is built in fixed order (code, masked message,
// file path, line number) and hashed with sha256, rendered lowercase hex.
//
// Masking favors precision over recall: aggressive enough that occurrences
// differing only in runtime values (numbers, addresses, UUIDs, timestamps)
// collide, but distinct failures keep distinct digests.
func Fingerprint(record contracts.ErrorRecord) string {
	parts := []string{
		record.Code,
		Normalize(record.Message, MaskFingerprint),
		NormalizeFilePath(record.FilePath),
		strconv.Itoa(record.LineNumber),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// NormalizeFilePath canonicalizes a source path for hashing: forward slashes,
// no Windows drive letter, and no build-host directory prefix.
func NormalizeFilePath(path string) string {
	if path == "" {
		return ""
	}
	p := strings.ReplaceAll(path, `\`, "/")
	if len(p) >= 2 && p[1] == ':' {
		p = p[2:]
	}
	if m := repoRootPattern.FindStringIndex(p); m != nil {
		// Keep the matched root directory itself.
		sub := repoRootPattern.FindStringSubmatch(p)
		p = sub[1] + "/" + p[m[1]:]
	}
	return strings.TrimPrefix(p, "/")
}
