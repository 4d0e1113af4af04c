package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

const booksJSON = `[
  {"isbn": "0312577222", "title": "The Great Gatsby", "author": "F. Scott Fitzgerald"},
  {"isbn": "0385504209", "title": "The DaVinci Code", "author": "Dan Brown"},
  {"isbn": "0765348276", "title": "Old Man's War", "author": "John Scalzi"}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer()
	require.NoError(t, err)
	return s
}

func writeBooks(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte(booksJSON), 0o644))
	return path
}

func callReq(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	return out
}

func loadBooks(t *testing.T, s *Server) {
	t.Helper()
	res, err := s.handleLoadCollection(context.Background(), callReq("load_collection", map[string]interface{}{
		"name": "books",
		"path": writeBooks(t),
		"keys": []interface{}{"title", "author"},
	}))
	require.NoError(t, err)
	require.NotNil(t, res)
}

func TestHandleLoadCollection(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleLoadCollection(context.Background(), callReq("load_collection", map[string]interface{}{
		"name": "books",
		"path": writeBooks(t),
		"keys": []interface{}{
			"title",
			map[string]interface{}{"name": "author", "weight": 0.5},
		},
		"id": "isbn",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, true, out["loaded"])
	assert.Equal(t, "books", out["collection"])
	assert.Equal(t, float64(3), out["records"])
	assert.Equal(t, float64(2), out["keys"])

	c, ok := s.getCollection("books")
	require.True(t, ok)
	assert.Equal(t, "isbn", c.id)
	assert.Equal(t, []types.Key{{Name: "title"}, {Name: "author", Weight: 0.5}}, c.keys)
}

func TestHandleLoadCollection_Invalid(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleLoadCollection(context.Background(), callReq("load_collection", map[string]interface{}{
		"path": writeBooks(t),
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleLoadCollection(context.Background(), callReq("load_collection", map[string]interface{}{
		"name": "books",
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleLoadCollection(context.Background(), callReq("load_collection", map[string]interface{}{
		"name": "books",
		"path": filepath.Join(t.TempDir(), "missing.json"),
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInternalError, mcpErr.Code)
}

func TestHandleFuzzySearch(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	res, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"collection": "books",
		"query":      "gatby",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, float64(1), out["total"])
	results, ok := out["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 1)
	item := results[0].(map[string]interface{})["item"].(map[string]interface{})
	assert.Equal(t, "The Great Gatsby", item["title"])
}

func TestHandleFuzzySearch_Highlights(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	res, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"collection":      "books",
		"query":           "gatby",
		"include_matches": true,
		"highlight":       true,
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	results := out["results"].([]interface{})
	require.Len(t, results, 1)
	entry := results[0].(map[string]interface{})

	matches, ok := entry["matches"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, matches)
	assert.Equal(t, "title", matches[0].(map[string]interface{})["key"])

	highlights, ok := entry["highlights"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, highlights["title"], "<em>")
}

func TestHandleFuzzySearch_Cached(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	args := map[string]interface{}{"collection": "books", "query": "gatby"}

	first, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", args))
	require.NoError(t, err)
	assert.Equal(t, 1, s.cache.len())

	second, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", args))
	require.NoError(t, err)
	assert.Equal(t, 1, s.cache.len())
	assert.Equal(t, resultText(t, first), resultText(t, second))

	// Reloading a collection invalidates cached responses.
	loadBooks(t, s)
	assert.Equal(t, 0, s.cache.len())
}

func TestHandleFuzzySearch_Suggestions(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	res, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"collection": "books",
		"query":      "gatsbby",
		"threshold":  0.1,
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, float64(0), out["total"])
	sugg, ok := out["suggestions"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, sugg, "gatsby")
}

func TestHandleFuzzySearch_Errors(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	var mcpErr *MCPError

	_, err := s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"query": "gatby",
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)

	_, err = s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"collection": "missing",
		"query":      "gatby",
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeCollectionNotFound, mcpErr.Code)

	_, err = s.handleFuzzySearch(context.Background(), callReq("fuzzy_search", map[string]interface{}{
		"collection": "books",
		"limit":      float64(500),
	}))
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleGetStatus(t *testing.T) {
	s := newTestServer(t)
	loadBooks(t, s)

	res, err := s.handleGetStatus(context.Background(), callReq("get_status", map[string]interface{}{}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, ServerName, out["server"])
	assert.Equal(t, ServerVersion, out["version"])

	cols, ok := out["collections"].([]interface{})
	require.True(t, ok)
	require.Len(t, cols, 1)
	assert.Equal(t, "books", cols[0].(map[string]interface{})["name"])

	cache, ok := out["cache"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), cache["entries"])
}

func TestParseKeys(t *testing.T) {
	keys, err := parseKeys(nil)
	require.NoError(t, err)
	assert.Nil(t, keys)

	keys, err = parseKeys([]interface{}{
		"title",
		map[string]interface{}{"name": "author", "weight": 0.45},
	})
	require.NoError(t, err)
	assert.Equal(t, []types.Key{{Name: "title"}, {Name: "author", Weight: 0.45}}, keys)

	_, err = parseKeys("title")
	assert.Error(t, err)
	_, err = parseKeys([]interface{}{""})
	assert.Error(t, err)
	_, err = parseKeys([]interface{}{map[string]interface{}{"weight": 0.5}})
	assert.Error(t, err)
	_, err = parseKeys([]interface{}{42})
	assert.Error(t, err)
}

func TestQueryCache(t *testing.T) {
	c, err := newQueryCache(2, 50*time.Millisecond)
	require.NoError(t, err)

	key := queryKey("books", "gatby", 10)
	_, hit := c.get(key)
	assert.False(t, hit)

	c.put(key, "payload")
	got, hit := c.get(key)
	require.True(t, hit)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 1, c.len())

	// Entries expire after the TTL.
	time.Sleep(60 * time.Millisecond)
	_, hit = c.get(key)
	assert.False(t, hit)
	assert.Equal(t, 0, c.len())

	// The LRU bound evicts the oldest entry.
	c.put(queryKey("a"), "1")
	c.put(queryKey("b"), "2")
	c.put(queryKey("c"), "3")
	assert.Equal(t, 2, c.len())
	_, hit = c.get(queryKey("a"))
	assert.False(t, hit)

	c.purge()
	assert.Equal(t, 0, c.len())
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, queryKey("books", "gatby", 10), queryKey("books", "gatby", 10))
	assert.NotEqual(t, queryKey("books", "gatby", 10), queryKey("books", "gatby", 20))
	assert.NotEqual(t, queryKey("books", "gatby"), queryKey("booksgatby"))
}
