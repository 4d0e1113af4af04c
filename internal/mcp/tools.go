package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/fuzzyfind-mcp/internal/source"
	"github.com/dshills/fuzzyfind-mcp/internal/suggest"
	"github.com/dshills/fuzzyfind-mcp/pkg/fuzzy"
	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeCollectionNotFound = -32001 // Named collection has not been loaded
)

// maxSuggestions bounds the "did you mean" list on zero-result searches
const maxSuggestions = 5

// handleLoadCollection handles the load_collection tool invocation
func (s *Server) handleLoadCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	path := getStringDefault(args, "path", "")
	dbPath := getStringDefault(args, "db_path", "")
	dbQuery := getStringDefault(args, "db_query", "")

	var records []any
	var err error
	var from string

	switch {
	case path != "":
		records, err = source.LoadJSONFile(path)
		from = path
	case dbPath != "" && dbQuery != "":
		records, err = source.LoadSQLite(ctx, dbPath, dbQuery)
		from = dbPath
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "either path or db_path+db_query is required", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load collection", map[string]interface{}{
			"error": err.Error(),
		})
	}

	keys, err := parseKeys(args["keys"])
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid keys", map[string]interface{}{
			"param":  "keys",
			"reason": err.Error(),
		})
	}

	s.putCollection(&collection{
		name:     name,
		records:  records,
		keys:     keys,
		id:       getStringDefault(args, "id", ""),
		source:   from,
		loadedAt: time.Now(),
	})

	response := map[string]interface{}{
		"loaded":     true,
		"collection": name,
		"records":    len(records),
		"source":     from,
		"keys":       len(keys),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFuzzySearch handles the fuzzy_search tool invocation
func (s *Server) handleFuzzySearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["collection"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "collection parameter is required", map[string]interface{}{
			"param":  "collection",
			"reason": "missing or empty",
		})
	}

	c, found := s.getCollection(name)
	if !found {
		return nil, newMCPError(ErrorCodeCollectionNotFound, "collection not loaded", map[string]interface{}{
			"collection": name,
			"hint":       "use the load_collection tool first",
		})
	}

	// An empty query matches everything by policy, so it is optional.
	query := getStringDefault(args, "query", "")

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	cfg := types.DefaultConfig()
	cfg.Keys = c.keys
	cfg.ID = c.id
	cfg.Threshold = getFloatDefault(args, "threshold", cfg.Threshold)
	cfg.Tokenize = getBoolDefault(args, "tokenize", false)
	cfg.MatchAllTokens = getBoolDefault(args, "match_all_tokens", false)
	cfg.CaseSensitive = getBoolDefault(args, "case_sensitive", false)
	cfg.ShouldSort = getBoolDefault(args, "sort", true)

	highlight := getBoolDefault(args, "highlight", false)
	includeMatches := getBoolDefault(args, "include_matches", false)
	cfg.IncludeMatches = includeMatches || highlight

	key := queryKey(name, c.loadedAt.UnixNano(), query, limit,
		cfg.Threshold, cfg.Tokenize, cfg.MatchAllTokens, cfg.CaseSensitive,
		cfg.ShouldSort, includeMatches, highlight)
	if payload, hit := s.cache.get(key); hit {
		return mcp.NewToolResultText(payload), nil
	}

	started := time.Now()

	searcher, err := fuzzy.New(c.records, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	rendered := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		entry := map[string]interface{}{
			"item":  r.Item,
			"index": r.Index,
			"score": r.Score,
		}
		if includeMatches {
			entry["matches"] = renderMatches(r.Matches)
		}
		if highlight {
			entry["highlights"] = renderHighlights(r.Matches)
		}
		rendered = append(rendered, entry)
	}

	response := map[string]interface{}{
		"collection":  name,
		"query":       query,
		"total":       total,
		"results":     rendered,
		"duration_ms": time.Since(started).Milliseconds(),
	}

	if total == 0 && query != "" {
		if sugg := s.suggestions(c, query); len(sugg) > 0 {
			response["suggestions"] = sugg
		}
	}

	payload := formatJSON(response)
	s.cache.put(key, payload)

	return mcp.NewToolResultText(payload), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	cols := make([]map[string]interface{}, 0, len(s.collections))
	for _, c := range s.collections {
		cols = append(cols, map[string]interface{}{
			"name":      c.name,
			"records":   len(c.records),
			"keys":      len(c.keys),
			"source":    c.source,
			"loaded_at": c.loadedAt.Format(time.RFC3339),
		})
	}
	s.mu.RUnlock()

	response := map[string]interface{}{
		"server":     ServerName,
		"version":    ServerVersion,
		"build_mode": source.BuildMode,
		"cache": map[string]interface{}{
			"entries": s.cache.len(),
			"ttl":     s.cache.ttl.String(),
		},
		"collections": cols,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// suggestions builds "did you mean" terms from the collection vocabulary
// for a query that produced no results.
func (s *Server) suggestions(c *collection, query string) []string {
	keyNames := make([]string, len(c.keys))
	for i, k := range c.keys {
		keyNames[i] = k.Name
	}
	vocab := suggest.Vocabulary(c.records, keyNames)

	sg := suggest.New(0.8)
	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(query) {
		for _, sug := range sg.Suggest(word, vocab, maxSuggestions) {
			if _, dup := seen[sug.Term]; dup {
				continue
			}
			seen[sug.Term] = struct{}{}
			out = append(out, sug.Term)
			if len(out) >= maxSuggestions {
				return out
			}
		}
	}
	return out
}

func renderMatches(matches []types.FieldMatch) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		out = append(out, map[string]interface{}{
			"key":         m.Key,
			"array_index": m.ArrayIndex,
			"value":       m.Value,
			"score":       m.Score,
			"indices":     m.Indices,
		})
	}
	return out
}

func renderHighlights(matches []types.FieldMatch) map[string]string {
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		out[m.Key] = fuzzy.Highlight(m.Value, m.Indices, "<em>", "</em>")
	}
	return out
}

// parseKeys accepts an array of key names or {name, weight} objects.
func parseKeys(raw interface{}) ([]types.Key, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("keys must be an array")
	}

	keys := make([]types.Key, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("key name cannot be empty")
			}
			keys = append(keys, types.Key{Name: v})
		case map[string]interface{}:
			name, _ := v["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("key object requires a name")
			}
			weight := getFloatDefault(v, "weight", 0)
			keys = append(keys, types.Key{Name: name, Weight: weight})
		default:
			return nil, fmt.Errorf("key must be a string or object, got %T", item)
		}
	}
	return keys, nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	return defaultValue
}

// getFloatDefault extracts a float parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
