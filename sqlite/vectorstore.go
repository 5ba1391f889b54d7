package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"time"

	"github.com/fwojciec/sitetext"
)

// Compile-time interface verification.
var _ sitetext.VectorStore = (*VectorStore)(nil)

// VectorStore implements sitetext.VectorStore using SQLite.
//
// Vectors are stored as little-endian float32 blobs. Search is a full scan
// of the collection scored by cosine similarity.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// CreateCollection creates a collection of vectors with dimension dim.
func (s *VectorStore) CreateCollection(ctx context.Context, name string, dim int) error {
	if name == "" {
		return sitetext.Errorf(sitetext.EINVALID, "collection name required")
	}
	if dim <= 0 {
		return sitetext.Errorf(sitetext.EINVALID, "collection %q: dimension must be positive", name)
	}

	existing, err := s.dimension(ctx, s.db.db, name)
	if err == nil {
		if existing != dim {
			return sitetext.Errorf(sitetext.ECONFLICT, "collection %q exists with dimension %d", name, existing)
		}
		return nil
	}
	if sitetext.ErrorCode(err) != sitetext.ENOTFOUND {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (name, dim, created_at)
		VALUES (?, ?, ?)
	`, name, dim, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Upsert inserts points, replacing points with the same ID.
func (s *VectorStore) Upsert(ctx context.Context, collection string, points []*sitetext.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	dim, err := s.dimension(ctx, tx, collection)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return err
		}
		if len(p.Vector) != dim {
			return sitetext.Errorf(sitetext.EINVALID, "point %q: vector has dimension %d, collection %q expects %d", p.ID, len(p.Vector), collection, dim)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO points (collection, id, url, content_hash, vector, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (collection, id) DO UPDATE SET
				url = excluded.url,
				content_hash = excluded.content_hash,
				vector = excluded.vector,
				updated_at = excluded.updated_at
		`, collection, p.ID, p.URL, p.ContentHash, encodeVector(p.Vector), now.Format(time.RFC3339)); err != nil {
			return err
		}
		p.UpdatedAt = now.Truncate(time.Second)
	}

	return tx.Commit()
}

// Search returns up to limit points most similar to vector.
// Ties are ordered by point ID.
func (s *VectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]*sitetext.Match, error) {
	if limit <= 0 {
		return nil, sitetext.Errorf(sitetext.EINVALID, "search limit must be positive")
	}

	dim, err := s.dimension(ctx, s.db.db, collection)
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, sitetext.Errorf(sitetext.EINVALID, "query vector has dimension %d, collection %q expects %d", len(vector), collection, dim)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, vector
		FROM points
		WHERE collection = ?
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []*sitetext.Match{}
	for rows.Next() {
		var m sitetext.Match
		var blob []byte
		if err := rows.Scan(&m.ID, &m.URL, &blob); err != nil {
			return nil, err
		}
		v, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		m.Score = cosine(vector, v)
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b *sitetext.Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindPoint retrieves a point by ID.
func (s *VectorStore) FindPoint(ctx context.Context, collection, id string) (*sitetext.Point, error) {
	var p sitetext.Point
	var blob []byte
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, content_hash, vector, updated_at
		FROM points
		WHERE collection = ? AND id = ?
	`, collection, id).Scan(&p.ID, &p.URL, &p.ContentHash, &blob, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitetext.Errorf(sitetext.ENOTFOUND, "point %q not found in collection %q", id, collection)
	}
	if err != nil {
		return nil, err
	}

	if p.Vector, err = decodeVector(blob); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &p, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dimension returns the vector dimension of a collection.
func (s *VectorStore) dimension(ctx context.Context, q querier, collection string) (int, error) {
	var dim int
	err := q.QueryRowContext(ctx, `SELECT dim FROM collections WHERE name = ?`, collection).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sitetext.Errorf(sitetext.ENOTFOUND, "collection %q not found", collection)
	}
	if err != nil {
		return 0, err
	}
	return dim, nil
}
