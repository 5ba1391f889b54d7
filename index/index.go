// Package index fetches the pages of a site, embeds their text and stores
// the vectors in a sitetext.VectorStore.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitetext"
	"golang.org/x/sync/errgroup"
)

// Defaults used when the corresponding Indexer field is zero.
const (
	DefaultConcurrency = 10
	DefaultBatchSize   = 50

	// DefaultMaxTokens is the input limit of gemini-embedding-001.
	DefaultMaxTokens = 2048
)

// Indexer turns a list of page URLs into stored embedding vectors.
//
// Pages are fetched and extracted concurrently. A page whose extracted text
// hashes to the content hash already stored for its point is skipped.
// The remaining pages are embedded in batches and upserted in input order.
type Indexer struct {
	Fetcher    sitetext.Fetcher
	Extractor  sitetext.Extractor
	Embedder   sitetext.Embedder
	Store      sitetext.VectorStore
	Collection string

	// TokenCounter, if set, is used to cut texts down to MaxTokens.
	TokenCounter sitetext.TokenCounter
	MaxTokens    int

	Concurrency int
	BatchSize   int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of an indexing run.
type Result struct {
	Indexed int
	Skipped int
	Failed  int
	Bytes   int
	Tokens  int
}

// ProgressEvent reports progress during an indexing run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressExtracted
	ProgressSkipped
	ProgressFailed
	ProgressIndexed
	ProgressFinished
)

// ProgressFunc is a callback for reporting indexing progress.
type ProgressFunc func(event ProgressEvent)

// page holds the outcome of fetching and extracting a single URL.
type page struct {
	position int
	url      string
	text     string
	hash     string
	tokens   int
	skipped  bool
	err      error
}

// Index indexes every unique URL in urls into the collection.
//
// Fetch and extraction failures are counted in Result.Failed and reported
// through progress. Embedding and storage failures stop the run. If ctx is
// canceled, the partial result is returned with the context error.
func (ix *Indexer) Index(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if ix.Collection == "" {
		return nil, sitetext.Errorf(sitetext.EINVALID, "collection required")
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	set := sitetext.NewLocationSet()
	for _, u := range urls {
		set.Add(u)
	}
	urls = set.Locations()
	total := len(urls)

	result := &Result{}
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	pages := ix.extractPages(ctx, urls, func(p page, completed int) {
		event := ProgressEvent{Completed: completed, Total: total, URL: p.url, Error: p.err}
		switch {
		case p.err != nil:
			event.Type = ProgressFailed
		case p.skipped:
			event.Type = ProgressSkipped
		default:
			event.Type = ProgressExtracted
		}
		progress(event)
	})
	if err := ctx.Err(); err != nil {
		return result, err
	}

	var pending []page
	for _, p := range pages {
		switch {
		case p.err != nil:
			result.Failed++
		case p.skipped:
			result.Skipped++
		default:
			pending = append(pending, p)
		}
	}

	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	created := false
	for start := 0; start < len(pending); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch := pending[start:min(start+batchSize, len(pending))]
		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.text
		}

		vectors, err := ix.Embedder.Embed(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("embedding batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return result, sitetext.Errorf(sitetext.EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}

		if !created {
			if err := ix.Store.CreateCollection(ctx, ix.Collection, len(vectors[0])); err != nil {
				return result, err
			}
			created = true
		}

		points := make([]*sitetext.Point, len(batch))
		for i, p := range batch {
			points[i] = &sitetext.Point{
				ID:          PointID(p.url),
				URL:         p.url,
				ContentHash: p.hash,
				Vector:      vectors[i],
			}
		}
		if err := ix.Store.Upsert(ctx, ix.Collection, points); err != nil {
			return result, fmt.Errorf("storing batch: %w", err)
		}

		for _, p := range batch {
			result.Indexed++
			result.Bytes += len(p.text)
			result.Tokens += p.tokens
			progress(ProgressEvent{
				Type:      ProgressIndexed,
				Completed: result.Indexed,
				Total:     len(pending),
				URL:       p.url,
			})
		}
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// extractPages processes urls concurrently and returns the pages in input
// order. report is called from the calling goroutine as each page finishes.
func (ix *Indexer) extractPages(ctx context.Context, urls []string, report func(p page, completed int)) []page {
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan page, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- ix.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	pages := make([]page, len(urls))
	var completed atomic.Int64
	for p := range resultCh {
		pages[p.position] = p
		report(p, int(completed.Add(1)))
	}
	return pages
}

// processURL fetches, extracts and hashes a single URL and checks whether
// the stored point is already up to date.
func (ix *Indexer) processURL(ctx context.Context, position int, url string) page {
	p := page{position: position, url: url}

	delays := ix.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, ix.Fetcher, url, ix.logger(), delays)
	if err != nil {
		p.err = err
		return p
	}

	text := ix.Extractor.Extract(html).Text()
	if text == "" {
		p.err = sitetext.Errorf(sitetext.EPARSE, "no text extracted from %s", url)
		return p
	}

	p.text, p.tokens = ix.fitTokens(ctx, url, text)
	p.hash = ComputeHash(p.text)

	existing, err := ix.Store.FindPoint(ctx, ix.Collection, PointID(url))
	switch {
	case err == nil:
		p.skipped = existing.ContentHash == p.hash
	case sitetext.ErrorCode(err) != sitetext.ENOTFOUND:
		p.err = err
	}
	return p
}

// fitTokens cuts text to roughly MaxTokens tokens, keeping a prefix whose
// rune count is proportional to the allowed share. It returns the text and
// its estimated token count, which is zero without a TokenCounter.
func (ix *Indexer) fitTokens(ctx context.Context, url, text string) (string, int) {
	if ix.TokenCounter == nil {
		return text, 0
	}

	maxTokens := ix.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	tokens, err := ix.TokenCounter.CountTokens(ctx, text)
	if err != nil {
		ix.logger().Warn("token count failed", "url", url, "err", err)
		return text, 0
	}
	if tokens <= maxTokens {
		return text, tokens
	}

	runes := []rune(text)
	keep := len(runes) * maxTokens / tokens
	ix.logger().Debug("text truncated", "url", url, "tokens", tokens, "max", maxTokens)
	return string(runes[:keep]), maxTokens
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ix.Logger
}
