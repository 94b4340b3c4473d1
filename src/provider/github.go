package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// githubRepoPattern accepts https and ssh remote forms:
// https://github.com/owner/repo, git@github.com:owner/repo.git
var githubRepoPattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?$`)

// GitHubCodeProvider fetches file content through the GitHub contents API.
// It fails fast: no internal retry or backoff, per the capability contract.
type GitHubCodeProvider struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewGitHubCodeProvider creates a provider authenticating with token.
// An empty token works for public repositories at reduced rate limits.
func NewGitHubCodeProvider(token string) *GitHubCodeProvider {
	return &GitHubCodeProvider{
		token:   token,
		baseURL: "https://api.github.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// contentsResponse is the subset of the GitHub contents API payload we use.
type contentsResponse struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchCode implements CodeProvider. It downloads filePath at ref and
// slices a window of contextLines lines either side of line, prefixed with
// line numbers. line 0 returns the head of the file.
func (g *GitHubCodeProvider) FetchCode(ctx context.Context, repoURL, ref, filePath string, line, contextLines int) (string, error) {
	owner, repo, err := ParseRepositoryURL(repoURL)
	if err != nil {
		return "", err
	}

	content, err := g.fetchFileContent(ctx, owner, repo, filePath, ref)
	if err != nil {
		return "", err
	}

	return ExtractSnippet(content, line, contextLines), nil
}

func (g *GitHubCodeProvider) fetchFileContent(ctx context.Context, owner, repo, filePath, ref string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.baseURL, owner, repo, strings.TrimPrefix(filePath, "/"))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "patrol-error-analyzer")
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s/%s %s", ErrFileNotFound, owner, repo, filePath)
	case http.StatusUnauthorized:
		return "", fmt.Errorf("%w: github returned 401", ErrAuthFailed)
	case http.StatusForbidden:
		return "", fmt.Errorf("%w: github returned 403", ErrRateLimited)
	default:
		return "", fmt.Errorf("github API error: %s", resp.Status)
	}

	var body contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode github response: %w", err)
	}

	if body.Type != "file" || body.Content == "" {
		return "", fmt.Errorf("%w: %s is not a file", ErrFileNotFound, filePath)
	}

	// The contents API base64-encodes file payloads with embedded newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode file content: %w", err)
	}

	return string(decoded), nil
}

// ParseRepositoryURL extracts owner and repo from a GitHub remote URL.
func ParseRepositoryURL(repoURL string) (owner, repo string, err error) {
	m := githubRepoPattern.FindStringSubmatch(strings.TrimSpace(repoURL))
	if m == nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidRepoURL, repoURL)
	}
	return m[1], m[2], nil
}

// ExtractSnippet slices a window of contextLines lines around line (1-based)
// from content, prefixing each line with its right-aligned number. When line
// is 0 or out of range the head of the file is returned instead.
func ExtractSnippet(content string, line, contextLines int) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 {
		return ""
	}

	var start, end int // 1-based, inclusive
	if line >= 1 && line <= len(lines) {
		start = line - contextLines
		if start < 1 {
			start = 1
		}
		end = line + contextLines
		if end > len(lines) {
			end = len(lines)
		}
	} else {
		start = 1
		end = 2*contextLines + 1
		if end < 40 {
			end = 40
		}
		if end > len(lines) {
			end = len(lines)
		}
	}

	width := len(fmt.Sprintf("%d", end))
	var b strings.Builder
	for i := start; i <= end; i++ {
		fmt.Fprintf(&b, "%*d | %s", width, i, lines[i-1])
		if i < end {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
