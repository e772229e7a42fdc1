package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/resources"
)

const maxTextLength = 4096

// handleAnalyze implements the srl_analyze tool
func handleAnalyze(analyzer interfaces.Analyzer, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil || text == "" {
			return textResult("Error: text parameter is required"), nil
		}
		if len(text) > maxTextLength {
			return textResult(fmt.Sprintf("Error: text exceeds %d characters", maxTextLength)), nil
		}

		analysis, err := analyzer.Analyze(ctx, text)
		if err != nil {
			logger.Error().Err(err).Msg("Analysis failed")
			return textResult(fmt.Sprintf("Analysis error: %v", err)), nil
		}

		return textResult(formatAnalysis(analysis)), nil
	}
}

// handlePredicates implements the srl_predicates tool
func handlePredicates(analyzer interfaces.Analyzer, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil || text == "" {
			return textResult("Error: text parameter is required"), nil
		}
		if len(text) > maxTextLength {
			return textResult(fmt.Sprintf("Error: text exceeds %d characters", maxTextLength)), nil
		}

		extraction, err := analyzer.ExtractPredicates(ctx, text)
		if err != nil {
			logger.Error().Err(err).Msg("Predicate extraction failed")
			return textResult(fmt.Sprintf("Extraction error: %v", err)), nil
		}

		return textResult(formatExtraction(extraction)), nil
	}
}

// handleGroups implements the srl_groups tool
func handleGroups(store *resources.Store, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups := store.Groups()
		return textResult(formatGroups(groups)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}
