package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAnalyzeTool returns the srl_analyze tool definition
func createAnalyzeTool() mcp.Tool {
	return mcp.NewTool("srl_analyze",
		mcp.WithDescription("Run semantic role labeling on a Russian sentence: detect relevant predicates and label the arguments of the first matching predicate group"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to analyze (max 4096 characters)"),
		),
	)
}

// createPredicatesTool returns the srl_predicates tool definition
func createPredicatesTool() mcp.Tool {
	return mcp.NewTool("srl_predicates",
		mcp.WithDescription("Detect verbs in a Russian sentence and report which ones belong to a known predicate group, without running role labeling"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to analyze (max 4096 characters)"),
		),
	)
}

// createGroupsTool returns the srl_groups tool definition
func createGroupsTool() mcp.Tool {
	return mcp.NewTool("srl_groups",
		mcp.WithDescription("List the predicate groups the analyzer recognizes, with their role inventories"),
	)
}
