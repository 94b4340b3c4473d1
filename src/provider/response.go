package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for response parsing.
var (
	// codeFenceRegex matches ```json ... ``` style fences the model may
	// wrap its output in despite instructions.
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\n?([\\s\\S]*?)\n?```")

	// objectRegex extracts the outermost JSON object from mixed content.
	objectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)

	// trailingCommaRegex fixes a common LLM JSON quirk.
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)

	rootCauseLineRegex    = regexp.MustCompile(`(?i)root cause[:\s]*([^\n]+)`)
	suggestedFixLineRegex = regexp.MustCompile(`(?i)(?:suggested fix|solution|fix)[:\s]*([^\n]+)`)
)

// fallbackConfidence is reported when the response had no parseable JSON
// and sections were scraped from free text instead.
const fallbackConfidence = 60

// defaultConfidence is reported when the JSON omitted a confidence score.
const defaultConfidence = 75

// ParseAnalysisResponse extracts an Analysis from raw model output.
//
// Strategy sequence, each step a fallback for the previous:
//  1. direct JSON parse
//  2. strip code fences, fix trailing commas, parse the outermost object
//  3. scrape "root cause" / "suggested fix" lines from free text
//
// Only a response with neither JSON nor recognizable sections fails.
func ParseAnalysisResponse(text string) (*Analysis, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("empty analysis response")
	}

	if a, ok := tryParseJSON(trimmed); ok {
		return a, nil
	}

	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		if a, ok := tryParseJSON(strings.TrimSpace(m[1])); ok {
			return a, nil
		}
	}

	if m := objectRegex.FindString(trimmed); m != "" {
		if a, ok := tryParseJSON(m); ok {
			return a, nil
		}
	}

	// Last resort: scrape sections from prose.
	rootCause := firstSubmatch(rootCauseLineRegex, trimmed)
	suggestedFix := firstSubmatch(suggestedFixLineRegex, trimmed)
	if rootCause == "" && suggestedFix == "" {
		snippet := trimmed
		if len(snippet) > 200 {
			snippet = snippet[:200] + "... (truncated)"
		}
		return nil, fmt.Errorf("unparseable analysis response: %s", snippet)
	}

	return &Analysis{
		RootCause:       rootCause,
		SuggestedFix:    suggestedFix,
		ConfidenceScore: fallbackConfidence,
	}, nil
}

func tryParseJSON(s string) (*Analysis, bool) {
	cleaned := trailingCommaRegex.ReplaceAllString(s, "$1")

	var raw struct {
		RootCause       string `json:"rootCause"`
		SuggestedFix    string `json:"suggestedFix"`
		ConfidenceScore *int   `json:"confidenceScore"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, false
	}
	if raw.RootCause == "" && raw.SuggestedFix == "" {
		return nil, false
	}

	confidence := defaultConfidence
	if raw.ConfidenceScore != nil {
		confidence = clampConfidence(*raw.ConfidenceScore)
	}

	return &Analysis{
		RootCause:       raw.RootCause,
		SuggestedFix:    raw.SuggestedFix,
		ConfidenceScore: confidence,
	}, true
}

func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
