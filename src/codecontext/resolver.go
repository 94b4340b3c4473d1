// Package codecontext resolves an error record into repository context:
// which repository and ref to read, which code locations matter, and a
// bounded blob of source snippets fetched through the code provider.
package codecontext

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"patrol-agent/src/contracts"
	"patrol-agent/src/logger"
	"patrol-agent/src/provider"
)

// refKeys are the context-map keys recognized as carrying a commit/revision
// identifier, in priority order.
var refKeys = []string{"git.commit.sha", "vcs.revision"}

// serviceNameKey is the context-map key used to look up the service-name to
// repository mapping.
const serviceNameKey = "service.name"

// refPattern validates that a candidate ref looks like a commit SHA.
var refPattern = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

// Config bounds context resolution.
type Config struct {
	// DefaultRepositoryURL is consulted when neither the event nor the
	// service mapping names a repository. Empty disables the fallback.
	DefaultRepositoryURL string
	// ServiceRepositories maps service.name values to repository URLs.
	ServiceRepositories map[string]string
	// ContextLines is the window of source lines either side of a target line.
	ContextLines int
	// MaxLocations caps how many code locations are fetched per event.
	MaxLocations int
	// MaxContextChars caps the size of the assembled snippet blob.
	MaxContextChars int
}

// Resolver assembles RepositoryContext values. All failures during
// resolution degrade the context instead of aborting: a location whose
// fetch fails is skipped, and a context with zero snippets is still
// returned so analysis can proceed on the log alone.
type Resolver struct {
	code provider.CodeProvider
	cfg  Config
	log  logger.Logger
}

// NewResolver creates a resolver reading source through code.
func NewResolver(code provider.CodeProvider, cfg Config, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Resolver{code: code, cfg: cfg, log: log}
}

// Resolve returns the repository context for an event, or nil when no
// repository can be determined (analysis then proceeds without code).
func (r *Resolver) Resolve(ctx context.Context, event contracts.ErrorEvent) *contracts.RepositoryContext {
	repoURL := r.selectRepository(event)
	if repoURL == "" {
		return nil
	}

	repoCtx := &contracts.RepositoryContext{
		RepositoryURL: repoURL,
		Ref:           ExtractRef(event.Record.Context),
	}

	locations := ExtractLocations(event.Record, r.cfg.MaxLocations)
	if len(locations) == 0 {
		r.log.Debug("[Resolver] No code locations for event %s", event.EventID)
		return repoCtx
	}

	repoCtx.Snippets = r.assembleSnippets(ctx, repoURL, repoCtx.Ref, locations)
	return repoCtx
}

// selectRepository picks the repository for an event. First match wins:
// explicit event URL, service-name mapping, configured default, none.
func (r *Resolver) selectRepository(event contracts.ErrorEvent) string {
	if url := strings.TrimSpace(event.RepositoryURL); url != "" {
		return url
	}
	if svc := event.Record.Context[serviceNameKey]; svc != "" {
		if url := r.cfg.ServiceRepositories[svc]; url != "" {
			return url
		}
	}
	return strings.TrimSpace(r.cfg.DefaultRepositoryURL)
}

// ExtractRef returns a commit/revision identifier from a record context
// map, or empty when none of the recognized keys holds a plausible SHA
// (the repository default branch is used instead).
func ExtractRef(context map[string]string) string {
	for _, key := range refKeys {
		v := strings.TrimSpace(context[key])
		if v != "" && refPattern.MatchString(v) {
			return v
		}
	}
	return ""
}

// assembleSnippets fetches a window for every location and concatenates the
// blocks with file/line headers, truncating whole blocks once the character
// budget is reached. Individual fetch failures are logged and skipped.
func (r *Resolver) assembleSnippets(ctx context.Context, repoURL, ref string, locations []contracts.CodeLocation) string {
	var blocks []string
	total := 0

	for _, loc := range locations {
		snippet, err := r.code.FetchCode(ctx, repoURL, ref, loc.FilePath, loc.LineNumber, r.cfg.ContextLines)
		if err != nil {
			r.log.Debug("[Resolver] Skipping %s:%d: %v", loc.FilePath, loc.LineNumber, err)
			continue
		}

		header := "[Snippet] " + loc.FilePath
		if loc.LineNumber > 0 {
			header = fmt.Sprintf("%s:%d", header, loc.LineNumber)
		}
		block := header + "\n" + snippet

		if r.cfg.MaxContextChars > 0 && total+len(block) > r.cfg.MaxContextChars {
			if len(blocks) == 0 {
				// A single oversized block is cut mid-snippet rather than
				// dropping all context.
				blocks = append(blocks, block[:r.cfg.MaxContextChars])
			}
			blocks = append(blocks, "(Repository context truncated due to size limits.)")
			break
		}

		blocks = append(blocks, block)
		total += len(block)
	}

	return strings.Join(blocks, "\n\n")
}
