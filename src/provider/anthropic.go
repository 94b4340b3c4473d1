package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"patrol-agent/src/contracts"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5"

const analysisInstructions = `You are an expert software engineer specializing in error diagnosis and debugging.
Your task is to analyze error logs and identify root causes, suggesting fixes.

Provide your analysis in the following JSON format:
{
  "rootCause": "Brief explanation of the root cause",
  "suggestedFix": "Concrete steps to fix the issue",
  "confidenceScore": 85
}

Be concise but thorough. Focus on actionable insights.`

// AnthropicProvider implements AnalysisProvider on the Anthropic Messages
// API. Calls are fail-fast: any API error is the event's failure; retries
// belong to the caller of the whole process, not here.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for the given API key and model.
// An empty model selects DefaultAnthropicModel.
func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrAuthFailed)
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicProvider{
		client: &client,
		model:  model,
	}, nil
}

// Analyze implements AnalysisProvider.
func (p *AnthropicProvider) Analyze(ctx context.Context, record contracts.ErrorRecord, repoCtx *contracts.RepositoryContext) (*Analysis, error) {
	prompt := BuildAnalysisPrompt(record, repoCtx)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return ParseAnalysisResponse(text.String())
}

// BuildAnalysisPrompt renders the prompt for one record plus optional
// repository context.
func BuildAnalysisPrompt(record contracts.ErrorRecord, repoCtx *contracts.RepositoryContext) string {
	var b strings.Builder
	b.WriteString(analysisInstructions)
	b.WriteString("\n\nAnalyze the following error:\n\n")
	fmt.Fprintf(&b, "Error Message: %s\n", record.Message)

	if record.Code != "" {
		fmt.Fprintf(&b, "Error Code: %s\n", record.Code)
	}
	if record.FilePath != "" {
		b.WriteString("File: " + record.FilePath)
		if record.LineNumber > 0 {
			fmt.Fprintf(&b, ":%d", record.LineNumber)
		}
		b.WriteByte('\n')
	}
	if record.StackTrace != "" {
		fmt.Fprintf(&b, "Stack Trace:\n%s\n", record.StackTrace)
	}
	if len(record.Context) > 0 {
		data, err := json.MarshalIndent(record.Context, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "Context: %s\n", data)
		}
	}
	if repoCtx != nil && repoCtx.Snippets != "" {
		fmt.Fprintf(&b, "\nRelevant Code:\n%s\n", repoCtx.Snippets)
	}

	b.WriteString("\nProvide the analysis in JSON format.")
	return b.String()
}
