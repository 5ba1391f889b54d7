package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitetext"
)

// Ensure LoggingEmbedder implements sitetext.Embedder.
var _ sitetext.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with logging.
type LoggingEmbedder struct {
	next   sitetext.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next sitetext.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the batch size.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed",
			"texts", len(texts),
			"vectors", len(vectors),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts)
}

// Ensure LoggingVectorStore implements sitetext.VectorStore.
var _ sitetext.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with logging.
type LoggingVectorStore struct {
	next   sitetext.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next sitetext.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

func (s *LoggingVectorStore) CreateCollection(ctx context.Context, name string, dim int) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create collection",
			"collection", name,
			"dim", dim,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateCollection(ctx, name, dim)
}

func (s *LoggingVectorStore) Upsert(ctx context.Context, collection string, points []*sitetext.Point) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("upsert",
			"collection", collection,
			"points", len(points),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upsert(ctx, collection, points)
}

func (s *LoggingVectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) (matches []*sitetext.Match, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"collection", collection,
			"limit", limit,
			"matches", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, collection, vector, limit)
}

// FindPoint is logged at debug level; the indexer calls it once per URL.
func (s *LoggingVectorStore) FindPoint(ctx context.Context, collection, id string) (p *sitetext.Point, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find point",
			"collection", collection,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindPoint(ctx, collection, id)
}
