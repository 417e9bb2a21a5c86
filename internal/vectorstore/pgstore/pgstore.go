// Package pgstore is the alternative SQL-backed vectorstore.Store
// implementation sketched in spec.md §4.3 ("Alternative backend"),
// grounded on other_examples' reposearch Store.Migrate/UpsertChunk
// pattern: a pgvector column, an ON CONFLICT upsert, and
// `ORDER BY embedding <=> query LIMIT k` for search.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/codesearch-core/codesearch/internal/chunk"
	"github.com/codesearch-core/codesearch/internal/vectorstore"
)

// Store is a Postgres/pgvector implementation of vectorstore.Store. The
// contract and error taxonomy are unchanged from the in-process store.
type Store struct {
	pool      *pgxpool.Pool
	dimension int
	model     string
}

// New connects to url and ensures the schema exists for the given
// dimension and model name.
func New(ctx context.Context, url string, dimension int, model string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	s := &Store{pool: pool, dimension: dimension, model: model}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) migrate(ctx context.Context) error {
	q := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS codesearch_entries (
  id         TEXT PRIMARY KEY,
  filepath   TEXT NOT NULL,
  embedding  vector(%d) NOT NULL,
  chunk      JSONB NOT NULL,
  inserted_at BIGSERIAL
);

CREATE INDEX IF NOT EXISTS codesearch_entries_filepath_idx ON codesearch_entries (filepath);
CREATE INDEX IF NOT EXISTS codesearch_entries_embedding_idx
  ON codesearch_entries USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
`, s.dimension)
	_, err := s.pool.Exec(ctx, q)
	if err != nil {
		return fmt.Errorf("pgstore: migrate: %w", err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	for _, e := range entries {
		if len(e.Embedding) != s.dimension {
			return fmt.Errorf("%w: entry %q has %d dims, store has %d", vectorstore.ErrDimensionMismatch, e.ID, len(e.Embedding), s.dimension)
		}
	}

	const q = `
INSERT INTO codesearch_entries (id, filepath, embedding, chunk)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  filepath = EXCLUDED.filepath,
  embedding = EXCLUDED.embedding,
  chunk = EXCLUDED.chunk;`

	for _, e := range entries {
		chunkJSON, err := json.Marshal(e.Chunk)
		if err != nil {
			return fmt.Errorf("pgstore: marshal chunk %q: %w", e.ID, err)
		}
		if _, err := s.pool.Exec(ctx, q, e.ID, e.Chunk.Filepath, pgvector.NewVector(e.Embedding), chunkJSON); err != nil {
			return fmt.Errorf("pgstore: upsert %q: %w", e.ID, err)
		}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query []float32, opts vectorstore.SearchOptions) ([]vectorstore.SearchResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dims, store has %d", vectorstore.ErrDimensionMismatch, len(query), s.dimension)
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	const q = `
SELECT id, embedding, chunk, 1 - (embedding <=> $1) AS score
FROM codesearch_entries
ORDER BY embedding <=> $1
LIMIT $2;`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(query), opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("pgstore: search: %w", err)
	}
	defer rows.Close()

	var out []vectorstore.SearchResult
	for rows.Next() {
		var id string
		var emb pgvector.Vector
		var chunkJSON []byte
		var score float32
		if err := rows.Scan(&id, &emb, &chunkJSON, &score); err != nil {
			return nil, fmt.Errorf("pgstore: scan: %w", err)
		}
		if score < opts.MinScore {
			continue
		}
		var c chunk.Chunk
		if err := json.Unmarshal(chunkJSON, &c); err != nil {
			return nil, fmt.Errorf("pgstore: unmarshal chunk: %w", err)
		}
		out = append(out, vectorstore.SearchResult{
			Entry: vectorstore.Entry{ID: id, Embedding: emb.Slice(), Chunk: c},
			Score: score,
		})
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, ids []string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM codesearch_entries WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) DeleteByFilepath(ctx context.Context, filepath string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM codesearch_entries WHERE filepath = $1`, filepath)
	if err != nil {
		return 0, fmt.Errorf("pgstore: delete by filepath: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *Store) GetByFilepath(filepath string) []vectorstore.Entry {
	ctx := context.Background()
	rows, err := s.pool.Query(ctx, `SELECT id, embedding, chunk FROM codesearch_entries WHERE filepath = $1`, filepath)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []vectorstore.Entry
	for rows.Next() {
		var id string
		var emb pgvector.Vector
		var chunkJSON []byte
		if err := rows.Scan(&id, &emb, &chunkJSON); err != nil {
			continue
		}
		var c chunk.Chunk
		if err := json.Unmarshal(chunkJSON, &c); err != nil {
			continue
		}
		out = append(out, vectorstore.Entry{ID: id, Embedding: emb.Slice(), Chunk: c})
	}
	return out
}

func (s *Store) Stats() vectorstore.Stats {
	ctx := context.Background()
	var count int
	_ = s.pool.QueryRow(ctx, `SELECT count(*) FROM codesearch_entries`).Scan(&count)
	return vectorstore.Stats{TotalEntries: count, Dimension: s.dimension, Model: s.model}
}
