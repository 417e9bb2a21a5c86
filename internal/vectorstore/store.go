// Package vectorstore implements the append-and-upsert vector collection
// described in spec.md §4.3, backed in-process by chromem-go.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// ErrDimensionMismatch is returned when an entry's embedding length does
// not match the store's configured dimension.
var ErrDimensionMismatch = errors.New("vectorstore: dimension mismatch")

// Entry is one (id, embedding, chunk) record.
type Entry struct {
	ID        string
	Embedding []float32
	Chunk     chunk.Chunk
}

// SearchResult pairs an entry with its similarity score.
type SearchResult struct {
	Entry Entry
	Score float32
}

// SearchOptions configures Search.
type SearchOptions struct {
	TopK     int
	MinScore float32
}

// Stats summarizes the store's current state.
type Stats struct {
	TotalEntries int
	Dimension    int
	Model        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the vectorstore.Store contract from spec.md §4.3. The
// pgvector-backed implementation in ./pgstore satisfies the same
// interface.
type Store interface {
	Add(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error)
	Delete(ctx context.Context, ids []string) (int, error)
	DeleteByFilepath(ctx context.Context, filepath string) (int, error)
	GetByFilepath(filepath string) []Entry
	Stats() Stats
}

// memStore is the primary, in-process implementation: entries are tracked
// in an explicit ordered slice plus an id→index map (so upsert position
// and tie-breaking are guaranteed independent of chromem-go's own
// ordering), while a chromem.Collection does the actual similarity
// scoring in Search via QueryEmbedding.
type memStore struct {
	mu        sync.RWMutex
	dimension int
	model     string
	createdAt time.Time
	updatedAt time.Time

	order   []string // entry ids, insertion order, upsert-stable
	idIndex map[string]int
	entries map[string]Entry

	db         *chromem.DB
	collection *chromem.Collection
}

// New creates an empty store for the given dimension and embedding model
// name.
func New(dimension int, model string) (Store, error) {
	db := chromem.NewDB()
	// A nil embedding func is fine: we always pass pre-computed vectors to
	// AddDocument, never asking the collection to embed text itself.
	col, err := db.CreateCollection("codesearch", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create collection: %w", err)
	}
	now := time.Now()
	return &memStore{
		dimension:  dimension,
		model:      model,
		createdAt:  now,
		updatedAt:  now,
		idIndex:    make(map[string]int),
		entries:    make(map[string]Entry),
		db:         db,
		collection: col,
	}, nil
}

func (s *memStore) Add(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if len(e.Embedding) != s.dimension {
			return fmt.Errorf("%w: entry %q has %d dims, store has %d", ErrDimensionMismatch, e.ID, len(e.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if _, exists := s.idIndex[e.ID]; !exists {
			s.idIndex[e.ID] = len(s.order)
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e
	}
	s.updatedAt = time.Now()

	return s.rebuildCollectionLocked(ctx)
}

// rebuildCollectionLocked recreates the chromem collection from the
// current entry set. chromem-go has no native delete/replace-by-id that
// preserves our ordering guarantees, so the collection is treated as a
// disposable similarity index rebuilt after every mutation; callers pay
// this cost on writes, not on the read-heavy Search path.
func (s *memStore) rebuildCollectionLocked(ctx context.Context) error {
	col, err := s.db.CreateCollection(fmt.Sprintf("codesearch-%d", time.Now().UnixNano()), nil, nil)
	if err != nil {
		return fmt.Errorf("vectorstore: rebuild collection: %w", err)
	}
	for _, id := range s.order {
		e := s.entries[id]
		if err := col.AddDocument(ctx, chromem.Document{ID: e.ID, Embedding: e.Embedding}); err != nil {
			return fmt.Errorf("vectorstore: add document %q: %w", e.ID, err)
		}
	}
	s.collection = col
	return nil
}

// Search queries the chromem collection for the query vector's similarity
// against every entry, then filters by MinScore and truncates to TopK
// locally, breaking ties by insertion order the way chromem's own internal
// ordering doesn't guarantee.
func (s *memStore) Search(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dims, store has %d", ErrDimensionMismatch, len(query), s.dimension)
	}
	if opts.TopK <= 0 {
		opts.TopK = 10
	}

	s.mu.RLock()
	collection := s.collection
	total := len(s.order)
	pos := make(map[string]int, total)
	for i, id := range s.order {
		pos[id] = i
	}
	s.mu.RUnlock()

	if total == 0 {
		return nil, nil
	}

	docs, err := collection.QueryEmbedding(ctx, query, total, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: query: %w", err)
	}

	type scored struct {
		id    string
		score float32
		pos   int
	}
	all := make([]scored, 0, len(docs))
	for _, d := range docs {
		score := d.Similarity
		if score != score { // NaN from a zero-magnitude vector scores 0
			score = 0
		}
		if score < opts.MinScore {
			continue
		}
		all = append(all, scored{id: d.ID, score: score, pos: pos[d.ID]})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].pos < all[j].pos
	})

	if len(all) > opts.TopK {
		all = all[:opts.TopK]
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SearchResult, len(all))
	for i, sc := range all {
		out[i] = SearchResult{Entry: s.entries[sc.id], Score: sc.score}
	}
	return out, nil
}

func (s *memStore) Delete(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := s.idIndex[id]; ok {
			delete(s.idIndex, id)
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		s.compactLocked()
		s.updatedAt = time.Now()
		if err := s.rebuildCollectionLocked(ctx); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (s *memStore) DeleteByFilepath(ctx context.Context, filepath string) (int, error) {
	s.mu.RLock()
	var ids []string
	for _, id := range s.order {
		if s.entries[id].Chunk.Filepath == filepath {
			ids = append(ids, id)
		}
	}
	s.mu.RUnlock()
	return s.Delete(ctx, ids)
}

func (s *memStore) compactLocked() {
	newOrder := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := s.entries[id]; ok {
			newOrder = append(newOrder, id)
		}
	}
	s.order = newOrder
	s.idIndex = make(map[string]int, len(newOrder))
	for i, id := range newOrder {
		s.idIndex[id] = i
	}
}

func (s *memStore) GetByFilepath(filepath string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, id := range s.order {
		if e := s.entries[id]; e.Chunk.Filepath == filepath {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalEntries: len(s.order),
		Dimension:    s.dimension,
		Model:        s.model,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
	}
}
