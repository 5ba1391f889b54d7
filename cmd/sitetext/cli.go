package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/index"
)

// Extractor names accepted by --extractor.
const (
	ExtractorBasic       = "basic"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher      sitetext.Fetcher
	Resolver     sitetext.SitemapResolver
	Extractors   map[string]sitetext.Extractor
	NewConverter func(baseURL string) sitetext.Converter

	// Set for the index and search commands only.
	Indexer  *index.Indexer
	Embedder sitetext.Embedder
	Store    sitetext.VectorStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout   time.Duration `short:"t" default:"60s" env:"SITETEXT_TIMEOUT" help:"Timeout for each HTTP request"`
	UserAgent string        `default:"${user_agent}" help:"User-Agent header sent with requests"`
	VerifyTLS bool          `name:"verify-tls" help:"Verify TLS certificates"`
	DB        string        `env:"SITETEXT_DB" help:"SQLite database path (default: ~/.sitetext/sitetext.db)"`
	Verbose   bool          `short:"v" help:"Log debug output to stderr"`

	Resolve ResolveCmd `cmd:"" help:"Print the page URLs listed in a site's sitemaps"`
	Fetch   FetchCmd   `cmd:"" help:"Print the raw body of a URL"`
	Extract ExtractCmd `cmd:"" help:"Print the text of HTML pages"`
	Index   IndexCmd   `cmd:"" help:"Embed the pages of a site into a collection"`
	Search  SearchCmd  `cmd:"" help:"Search a collection for pages matching a query"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URLs        []string `arg:"" name:"url" help:"Site base URL (repeatable)"`
	Format      string   `short:"f" enum:"json,xml" default:"json" help:"Output format (json, xml)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent sitemap fetch limit"`
	MaxDepth    int      `default:"1" help:"Levels of nested sitemaps to follow"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL string `arg:"" help:"URL to fetch"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs      []string `arg:"" optional:"" name:"url" help:"Page URL (repeatable)"`
	File      string   `short:"f" help:"Read HTML from a file instead of fetching ('-' for stdin)"`
	Extractor string   `short:"e" enum:"basic,trafilatura,readability" default:"basic" help:"Extraction method (basic, trafilatura, readability)"`
	Markdown  bool     `short:"m" help:"Render the page as Markdown"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	URL         string `arg:"" help:"Site base URL"`
	Collection  string `short:"C" required:"" help:"Collection name"`
	Concurrency int    `short:"c" default:"10" help:"Concurrent fetch limit"`
	BatchSize   int    `default:"50" help:"Texts per embedding request"`
	MaxTokens   int    `default:"2048" help:"Truncate page text to this many tokens (0 disables)"`
	Model       string `default:"gemini-embedding-001" help:"Embedding model"`
	Dimensions  int    `default:"768" help:"Embedding dimensions"`
	APIKey      string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query      string `arg:"" help:"Search query"`
	Collection string `short:"C" required:"" help:"Collection name"`
	Limit      int    `short:"n" default:"5" help:"Maximum number of matches"`
	Model      string `default:"gemini-embedding-001" help:"Embedding model"`
	Dimensions int    `default:"768" help:"Embedding dimensions"`
	APIKey     string `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}
