// Package mcp implements the Model Context Protocol (MCP) server for FuzzyFind.
//
// The MCP server exposes three tools to AI coding assistants:
//   - load_collection: Load a record collection from a JSON file or SQLite query
//   - fuzzy_search: Run an approximate search over a loaded collection
//   - get_status: List loaded collections and cache statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	fuzzyfind serve
//
// It then listens on stdin for MCP protocol messages and writes responses
// to stdout.
//
// # Tool: load_collection
//
// Load records into a named in-memory collection:
//
//	{"name": "books", "path": "/data/books.json",
//	 "keys": [{"name": "title", "weight": 0.7}, {"name": "author"}]}
//
// # Tool: fuzzy_search
//
// Search a loaded collection:
//
//	{"collection": "books", "query": "gatby", "limit": 5}
//
// Responses include per-result scores, optional match index ranges for
// highlighting, and "did you mean" suggestions when nothing matched.
//
// # Caching
//
// Search responses are cached in a bounded LRU with a TTL so repeated
// assistant queries are served without rescanning the collection. Loading
// a collection purges the cache. The search engine itself stays cache-free;
// caching is purely a server-layer concern.
package mcp
