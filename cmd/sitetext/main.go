package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sitetext"
	"github.com/fwojciec/sitetext/gemini"
	"github.com/fwojciec/sitetext/goquery"
	"github.com/fwojciec/sitetext/htmltomarkdown"
	sitehttp "github.com/fwojciec/sitetext/http"
	"github.com/fwojciec/sitetext/index"
	"github.com/fwojciec/sitetext/readability"
	siteslog "github.com/fwojciec/sitetext/slog"
	"github.com/fwojciec/sitetext/sqlite"
	"github.com/fwojciec/sitetext/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", sitetext.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db and SITETEXT_DB are unset.
	DBPath string

	// GeminiBaseURL overrides the Gemini API endpoint. Empty uses the default.
	GeminiBaseURL string

	// SQLite database opened by the index and search commands.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitetext"),
		kong.Description("Resolve site sitemaps, extract page text and index it for search"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"user_agent": sitehttp.DefaultUserAgent},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitetext --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	fetchOpts := []sitehttp.Option{
		sitehttp.WithTimeout(cli.Timeout),
		sitehttp.WithUserAgent(cli.UserAgent),
	}
	if cli.VerifyTLS {
		fetchOpts = append(fetchOpts, sitehttp.WithTLSVerification())
	}
	fetcher := siteslog.NewLoggingFetcher(sitehttp.NewFetcher(fetchOpts...), logger)
	defer fetcher.Close()
	deps.Fetcher = fetcher

	resolverOpts := []sitehttp.ResolverOption{sitehttp.WithLogger(logger)}
	if cmd == "resolve" {
		resolverOpts = append(resolverOpts,
			sitehttp.WithConcurrency(cli.Resolve.Concurrency),
			sitehttp.WithMaxDepth(cli.Resolve.MaxDepth),
		)
	}
	deps.Resolver = siteslog.NewLoggingSitemapResolver(sitehttp.NewSitemapResolver(fetcher, resolverOpts...), logger)

	deps.Extractors = map[string]sitetext.Extractor{
		ExtractorBasic:       siteslog.NewLoggingExtractor(goquery.NewExtractor(), logger),
		ExtractorTrafilatura: siteslog.NewLoggingExtractor(trafilatura.NewExtractor(), logger),
		ExtractorReadability: siteslog.NewLoggingExtractor(readability.NewExtractor(), logger),
	}
	deps.NewConverter = func(baseURL string) sitetext.Converter {
		return htmltomarkdown.NewConverter(htmltomarkdown.WithBaseURL(baseURL))
	}

	switch cmd {
	case "index":
		if err := m.wireIndex(ctx, deps, &cli.Index, cli.DB); err != nil {
			return err
		}
		defer m.Close()
	case "search":
		if err := m.wireSearch(ctx, deps, &cli.Search, cli.DB); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// wireIndex opens the store and builds the Indexer for the index command.
func (m *Main) wireIndex(ctx context.Context, deps *Dependencies, c *IndexCmd, dbPath string) error {
	store, err := m.openStore(dbPath, deps)
	if err != nil {
		return err
	}

	client, err := m.newGeminiClient(ctx, c.APIKey)
	if err != nil {
		return err
	}
	embedder := siteslog.NewLoggingEmbedder(gemini.NewEmbedder(client,
		gemini.WithModel(c.Model),
		gemini.WithDimensions(c.Dimensions),
	), deps.Logger)

	ix := &index.Indexer{
		Fetcher:   deps.Fetcher,
		Extractor: deps.Extractors[ExtractorBasic],
		Embedder:  embedder,
		Store:     store,
		MaxTokens: c.MaxTokens,
		Logger:    deps.Logger,
	}

	if c.MaxTokens > 0 {
		tokenCounter, err := gemini.NewTokenCounter(gemini.DefaultTokenizerModel)
		if err != nil {
			deps.Logger.Warn("texts will not be truncated", "err", err)
		} else {
			ix.TokenCounter = tokenCounter
		}
	}

	deps.Indexer = ix
	return nil
}

// wireSearch opens the store and builds the query embedder for the search command.
func (m *Main) wireSearch(ctx context.Context, deps *Dependencies, c *SearchCmd, dbPath string) error {
	store, err := m.openStore(dbPath, deps)
	if err != nil {
		return err
	}

	client, err := m.newGeminiClient(ctx, c.APIKey)
	if err != nil {
		return err
	}
	deps.Embedder = siteslog.NewLoggingEmbedder(gemini.NewEmbedder(client,
		gemini.WithModel(c.Model),
		gemini.WithDimensions(c.Dimensions),
		gemini.WithTaskType(gemini.TaskRetrievalQuery),
	), deps.Logger)
	deps.Store = store
	return nil
}

func (m *Main) openStore(dbPath string, deps *Dependencies) (sitetext.VectorStore, error) {
	if dbPath == "" {
		dbPath = m.DBPath
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set SITETEXT_DB to use a different database path\n")
		return nil, fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	return siteslog.NewLoggingVectorStore(sqlite.NewVectorStore(m.DB), deps.Logger), nil
}

func (m *Main) newGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, sitetext.Errorf(sitetext.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: m.GeminiBaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitetext.db"
	}
	dir := filepath.Join(home, ".sitetext")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitetext.db")
}
