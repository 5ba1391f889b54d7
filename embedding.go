package sitetext

import (
	"context"
	"time"
)

// Point is a vector stored in a collection, keyed by a stable ID.
type Point struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	ContentHash string    `json:"contentHash"`
	Vector      []float32 `json:"vector"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the point contains invalid fields.
func (p *Point) Validate() error {
	if p.ID == "" {
		return Errorf(EINVALID, "point ID required")
	}
	if len(p.Vector) == 0 {
		return Errorf(EINVALID, "point %q: vector required", p.ID)
	}
	return nil
}

// Match is a search hit, scored by cosine similarity.
type Match struct {
	ID    string  `json:"id"`
	URL   string  `json:"url"`
	Score float64 `json:"score"`
}

// Embedder converts texts into embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore stores vectors in named collections and searches them.
type VectorStore interface {
	// CreateCollection creates a collection of vectors with dimension dim.
	// Creating an existing collection with the same dimension is a no-op;
	// a different dimension returns ECONFLICT.
	CreateCollection(ctx context.Context, name string, dim int) error

	// Upsert inserts points, replacing points with the same ID.
	// Returns ENOTFOUND if the collection does not exist.
	Upsert(ctx context.Context, collection string, points []*Point) error

	// Search returns up to limit points nearest to vector,
	// most similar first.
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]*Match, error)

	// FindPoint retrieves a point by ID.
	// Returns ENOTFOUND if the point does not exist.
	FindPoint(ctx context.Context, collection, id string) (*Point, error)
}
