package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dshills/fuzzyfind-mcp/internal/mcp"
	"github.com/dshills/fuzzyfind-mcp/internal/source"
	"github.com/dshills/fuzzyfind-mcp/pkg/fuzzy"
	"github.com/dshills/fuzzyfind-mcp/pkg/types"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Log to stderr (stdout is reserved for MCP protocol and results)
	log.SetOutput(os.Stderr)

	app := &cli.App{
		Name:    "fuzzyfind",
		Usage:   "Approximate record search over JSON and SQLite collections",
		Version: fmt.Sprintf("%s (built %s, sqlite %s)", version, buildTime, source.BuildMode),
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the MCP server on stdio",
		Action: func(c *cli.Context) error {
			log.Printf("FuzzyFind MCP Server v%s starting...", version)
			log.Printf("Build Mode: %s, SQLite Driver: %s", source.BuildMode, source.DriverName)

			server, err := mcp.NewServer()
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				log.Println("MCP server ready, listening on stdio...")
				errChan <- server.Serve(ctx)
			}()

			select {
			case sig := <-sigChan:
				log.Printf("Received signal %v, shutting down gracefully...", sig)
				cancel()
			case err := <-errChan:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			log.Println("Server stopped")
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run a one-shot search over a JSON collection file",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "JSON collection file (array of objects or strings)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "field key to search, optionally weighted as name:0.7 (repeatable)",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "project results to this key's value",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "maximum acceptable score in [0,1]",
				Value: types.DefaultThreshold,
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "maximum number of results",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "tokenize",
				Usage: "split query and fields into tokens",
			},
			&cli.BoolFlag{
				Name:  "match-all-tokens",
				Usage: "require every query token to match",
			},
			&cli.BoolFlag{
				Name:  "case-sensitive",
				Usage: "disable case folding",
			},
			&cli.BoolFlag{
				Name:  "matches",
				Usage: "include per-field match details",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "fan matching out across this many workers",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug tracing to stderr",
			},
		},
		Action: runSearch,
	}
}

func runSearch(c *cli.Context) error {
	query := c.Args().First()

	records, err := source.LoadJSONFile(c.String("file"))
	if err != nil {
		return err
	}

	keys, err := parseKeyFlags(c.StringSlice("key"))
	if err != nil {
		return err
	}

	cfg := types.DefaultConfig()
	cfg.Keys = keys
	cfg.ID = c.String("id")
	cfg.Threshold = c.Float64("threshold")
	cfg.Tokenize = c.Bool("tokenize")
	cfg.MatchAllTokens = c.Bool("match-all-tokens")
	cfg.CaseSensitive = c.Bool("case-sensitive")
	cfg.IncludeMatches = c.Bool("matches")
	cfg.Concurrency = c.Int("workers")
	cfg.Verbose = c.Bool("verbose")

	searcher, err := fuzzy.New(records, cfg)
	if err != nil {
		return err
	}

	results, err := searcher.Search(c.Context, query)
	if err != nil {
		return err
	}

	if limit := c.Int("limit"); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// parseKeyFlags parses repeated --key flags of the form "name" or
// "name:weight".
func parseKeyFlags(raw []string) ([]types.Key, error) {
	keys := make([]types.Key, 0, len(raw))
	for _, r := range raw {
		name := r
		weight := 0.0
		if i := strings.LastIndexByte(r, ':'); i >= 0 {
			var w float64
			if _, err := fmt.Sscanf(r[i+1:], "%g", &w); err == nil {
				name = r[:i]
				weight = w
			}
		}
		if name == "" {
			return nil, fmt.Errorf("invalid key flag %q", r)
		}
		keys = append(keys, types.Key{Name: name, Weight: weight})
	}
	return keys, nil
}
