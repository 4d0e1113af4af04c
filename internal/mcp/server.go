package mcp

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "fuzzyfind-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	// DefaultCacheSize bounds the query cache entry count
	DefaultCacheSize = 1000
	// DefaultCacheTTL is how long a cached search response stays valid
	DefaultCacheTTL = 1 * time.Hour
)

// collection is one named, in-memory record set with its search defaults.
type collection struct {
	name     string
	records  []any
	keys     []types.Key
	id       string
	source   string
	loadedAt time.Time
}

// Server wraps the MCP server with the loaded collections and query cache
type Server struct {
	mcp   *server.MCPServer
	cache *queryCache

	mu          sync.RWMutex
	collections map[string]*collection
}

// NewServer creates a new MCP server instance. Cache size and TTL can be
// tuned with FUZZYFIND_CACHE_SIZE and FUZZYFIND_CACHE_TTL.
func NewServer() (*Server, error) {
	cache, err := newQueryCache(cacheSizeFromEnv(), cacheTTLFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}

	s := &Server{
		mcp:         server.NewMCPServer(ServerName, ServerVersion),
		cache:       cache,
		collections: make(map[string]*collection),
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(loadCollectionTool(), s.handleLoadCollection)
	s.mcp.AddTool(fuzzySearchTool(), s.handleFuzzySearch)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// getCollection looks up a loaded collection by name.
func (s *Server) getCollection(name string) (*collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	return c, ok
}

// putCollection stores a collection, replacing any previous one with the
// same name, and purges the query cache.
func (s *Server) putCollection(c *collection) {
	s.mu.Lock()
	s.collections[c.name] = c
	s.mu.Unlock()

	// Cached responses may reference the replaced records.
	s.cache.purge()
}

func cacheSizeFromEnv() int {
	if v := os.Getenv("FUZZYFIND_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultCacheSize
}

func cacheTTLFromEnv() time.Duration {
	if v := os.Getenv("FUZZYFIND_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return DefaultCacheTTL
}
