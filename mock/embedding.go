package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of sitetext.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

var _ sitetext.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of sitetext.VectorStore.
type VectorStore struct {
	CreateCollectionFn func(ctx context.Context, name string, dim int) error
	UpsertFn           func(ctx context.Context, collection string, points []*sitetext.Point) error
	SearchFn           func(ctx context.Context, collection string, vector []float32, limit int) ([]*sitetext.Match, error)
	FindPointFn        func(ctx context.Context, collection, id string) (*sitetext.Point, error)
}

func (s *VectorStore) CreateCollection(ctx context.Context, name string, dim int) error {
	return s.CreateCollectionFn(ctx, name, dim)
}

func (s *VectorStore) Upsert(ctx context.Context, collection string, points []*sitetext.Point) error {
	return s.UpsertFn(ctx, collection, points)
}

func (s *VectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]*sitetext.Match, error) {
	return s.SearchFn(ctx, collection, vector, limit)
}

func (s *VectorStore) FindPoint(ctx context.Context, collection, id string) (*sitetext.Point, error) {
	return s.FindPointFn(ctx, collection, id)
}
