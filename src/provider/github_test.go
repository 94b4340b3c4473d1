package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRepositoryURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{name: "https", url: "https://github.com/acme/widgets", owner: "acme", repo: "widgets"},
		{name: "https with .git", url: "https://github.com/acme/widgets.git", owner: "acme", repo: "widgets"},
		{name: "ssh", url: "git@github.com:acme/widgets.git", owner: "acme", repo: "widgets"},
		{name: "not github", url: "https://gitlab.com/acme/widgets", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepositoryURL(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRepoURL) {
					t.Errorf("expected ErrInvalidRepoURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("got %s/%s, expected %s/%s", owner, repo, tt.owner, tt.repo)
			}
		})
	}
}

func TestExtractSnippet(t *testing.T) {
	content := "one\ntwo\nthree\nfour\nfive"

	tests := []struct {
		name         string
		line         int
		contextLines int
		contains     []string
		excludes     []string
	}{
		{
			name: "window around middle line", line: 3, contextLines: 1,
			contains: []string{"2 | two", "3 | three", "4 | four"},
			excludes: []string{"1 | one", "5 | five"},
		},
		{
			name: "window clamped at file start", line: 1, contextLines: 2,
			contains: []string{"1 | one", "3 | three"},
			excludes: []string{"4 | four"},
		},
		{
			name: "zero line returns head of file", line: 0, contextLines: 1,
			contains: []string{"1 | one", "5 | five"},
		},
		{
			name: "line past end returns head of file", line: 99, contextLines: 1,
			contains: []string{"1 | one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSnippet(content, tt.line, tt.contextLines)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("snippet missing %q:\n%s", want, got)
				}
			}
			for _, not := range tt.excludes {
				if strings.Contains(got, not) {
					t.Errorf("snippet should not contain %q:\n%s", not, got)
				}
			}
		})
	}
}

func TestGitHubFetchCode(t *testing.T) {
	fileContent := "package main\n\nfunc main() {\n\tpanic(\"boom\")\n}\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widgets/contents/cmd/main.go" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("ref"); got != "abc1234" {
			t.Errorf("expected ref=abc1234, got %q", got)
		}
		if auth := r.Header.Get("Authorization"); auth != "token test-token" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(fileContent)),
		})
	}))
	defer srv.Close()

	g := NewGitHubCodeProvider("test-token")
	g.baseURL = srv.URL

	snippet, err := g.FetchCode(context.Background(), "https://github.com/acme/widgets", "abc1234", "cmd/main.go", 4, 1)
	if err != nil {
		t.Fatalf("FetchCode failed: %v", err)
	}
	for _, want := range []string{"3 | func main() {", `4 | 	panic("boom")`, "5 | }"} {
		if !strings.Contains(snippet, want) {
			t.Errorf("snippet missing %q:\n%s", want, snippet)
		}
	}
}

func TestGitHubFetchCodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	g := NewGitHubCodeProvider("")
	g.baseURL = srv.URL

	_, err := g.FetchCode(context.Background(), "https://github.com/acme/widgets", "", "missing.go", 1, 1)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}
