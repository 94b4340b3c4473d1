package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"patrol-agent/src/ingest"
	"patrol-agent/src/provider"
	"patrol-agent/src/store"
)

// registerTools registers all available tools.
func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_error",
		mcp.WithDescription("Analyze an error log and return its root cause and suggested fix. Accepts a JSON event with an errorLog object (message, code, filePath, lineNumber, stackTrace, context) and an optional repositoryUrl. Repeated occurrences of the same error are served from cache."),
		mcp.WithString("event",
			mcp.Required(),
			mcp.Description("Error event as a JSON string"),
		),
	)

	lookupTool := mcp.NewTool("get_analysis",
		mcp.WithDescription("Look up a previously produced analysis by its fingerprint. Fingerprints appear in analyze_error responses."),
		mcp.WithString("fingerprint",
			mcp.Required(),
			mcp.Description("64-character hex fingerprint of the error"),
		),
	)

	statsTool := mcp.NewTool("cache_stats",
		mcp.WithDescription("Return analysis cache statistics: hits, misses, size, hit rate, and utilization."),
	)

	s.mcpServer.AddTool(analyzeTool, s.handleAnalyzeError)
	s.mcpServer.AddTool(lookupTool, s.handleGetAnalysis)
	s.mcpServer.AddTool(statsTool, s.handleCacheStats)
}

// handleAnalyzeError handles the analyze_error tool call.
func (s *Server) handleAnalyzeError(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("event", "")
	if raw == "" {
		return mcp.NewToolResultError("event parameter is required"), nil
	}

	events, err := ingest.ParseEvent([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid event: %v", err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultError("payload carried no events"), nil
	}

	result, err := s.engine.Process(ctx, events[0])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", provider.WrapError(err))), nil
	}

	if s.archive != nil {
		// Archive failures do not fail the tool call.
		_ = s.archive.SaveAnalysis(ctx, &result)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleGetAnalysis handles the get_analysis tool call.
func (s *Server) handleGetAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fingerprint := request.GetString("fingerprint", "")
	if fingerprint == "" {
		return mcp.NewToolResultError("fingerprint parameter is required"), nil
	}

	if s.archive == nil {
		return mcp.NewToolResultError("no archive configured"), nil
	}

	result, err := s.archive.GetAnalysis(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no analysis for fingerprint %s", fingerprint)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleCacheStats handles the cache_stats tool call.
func (s *Server) handleCacheStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.engine.CacheStats())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
