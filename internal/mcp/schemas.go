package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// loadCollectionTool returns the tool definition for load_collection
func loadCollectionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "load_collection",
		Description: "Load a record collection from a JSON file or SQLite query into memory for fuzzy searching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name to register the collection under (replaces any existing collection with the same name)",
				},
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to a JSON file containing an array of objects or strings",
				},
				"db_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to a SQLite database (used with db_query instead of path)",
				},
				"db_query": map[string]interface{}{
					"type":        "string",
					"description": "SELECT statement producing one record per row, columns become field keys",
				},
				"keys": map[string]interface{}{
					"type":        "array",
					"description": "Field keys to search; strings or {name, weight} objects with weight in (0,1]",
					"items": map[string]interface{}{
						"type": []string{"string", "object"},
					},
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Optional key whose value replaces the record in results (identifier projection)",
				},
			},
			Required: []string{"name"},
		},
	}
}

// fuzzySearchTool returns the tool definition for fuzzy_search
func fuzzySearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "fuzzy_search",
		Description: "Approximate search over a loaded collection, tolerant of typos, ranked by score (lower is better)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"collection": map[string]interface{}{
					"type":        "string",
					"description": "Name of a collection previously registered with load_collection",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search pattern; an empty query returns the whole collection in input order",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"threshold": map[string]interface{}{
					"type":        "number",
					"description": "Maximum acceptable match score in [0,1]; lower demands closer matches",
					"default":     0.6,
				},
				"tokenize": map[string]interface{}{
					"type":        "boolean",
					"description": "Additionally split query and fields into tokens and average token scores",
					"default":     false,
				},
				"match_all_tokens": map[string]interface{}{
					"type":        "boolean",
					"description": "With tokenize, require every query token to match some field token",
					"default":     false,
				},
				"case_sensitive": map[string]interface{}{
					"type":        "boolean",
					"description": "Disable case folding",
					"default":     false,
				},
				"sort": map[string]interface{}{
					"type":        "boolean",
					"description": "Sort results by ascending score; false preserves collection order",
					"default":     true,
				},
				"include_matches": map[string]interface{}{
					"type":        "boolean",
					"description": "Include per-field match details with character index ranges",
					"default":     false,
				},
				"highlight": map[string]interface{}{
					"type":        "boolean",
					"description": "Include matched field values with <em> markers around matched ranges",
					"default":     false,
				},
			},
			Required: []string{"collection"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "List loaded collections, cache statistics and build information",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
