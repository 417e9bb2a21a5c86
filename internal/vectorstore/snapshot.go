package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/codesearch-core/codesearch/internal/chunk"
)

// ErrUnsupportedBackend is returned by Save when given a Store
// implementation that isn't the in-process memStore.
var ErrUnsupportedBackend = errors.New("vectorstore: Save only supports the in-process store")

// Snapshot is the self-describing on-disk document from spec.md §6.
type Snapshot struct {
	Dimension int                `json:"dimension"`
	Model     string             `json:"model"`
	Metadata  SnapshotMetadata   `json:"metadata"`
	Entries   []EntrySnapshot    `json:"entries"`
}

// SnapshotMetadata carries the store's created_at/updated_at timestamps.
type SnapshotMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntrySnapshot is one persisted VectorEntry.
type EntrySnapshot struct {
	ID        string      `json:"id"`
	Embedding []float32   `json:"embedding"`
	Chunk     chunk.Chunk `json:"chunk"`
}

// ToSnapshot captures the store's current state, in insertion order.
func (s *memStore) ToSnapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]EntrySnapshot, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		entries = append(entries, EntrySnapshot{ID: e.ID, Embedding: e.Embedding, Chunk: e.Chunk})
	}

	return &Snapshot{
		Dimension: s.dimension,
		Model:     s.model,
		Metadata:  SnapshotMetadata{CreatedAt: s.createdAt, UpdatedAt: s.updatedAt},
		Entries:   entries,
	}
}

// FromSnapshot rebuilds a Store from a decoded snapshot.
func FromSnapshot(ctx context.Context, snap *Snapshot) (Store, error) {
	store, err := New(snap.Dimension, snap.Model)
	if err != nil {
		return nil, err
	}
	ms := store.(*memStore)
	ms.createdAt = snap.Metadata.CreatedAt
	ms.updatedAt = snap.Metadata.UpdatedAt

	entries := make([]Entry, len(snap.Entries))
	for i, es := range snap.Entries {
		entries[i] = Entry{ID: es.ID, Embedding: es.Embedding, Chunk: es.Chunk}
	}
	if err := ms.Add(ctx, entries); err != nil {
		return nil, err
	}
	// Add() stamps updatedAt with time.Now(); restore the snapshot's value
	// so a pure load doesn't itself look like a mutation.
	ms.mu.Lock()
	ms.createdAt = snap.Metadata.CreatedAt
	ms.updatedAt = snap.Metadata.UpdatedAt
	ms.mu.Unlock()
	return store, nil
}

// Save persists store to path atomically: serialize, write to a temp
// file, then rename into place, guarded by a flock so concurrent Save
// calls across processes serialize against one another.
func Save(store Store, path string) error {
	ms, ok := store.(*memStore)
	if !ok {
		return ErrUnsupportedBackend
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("vectorstore snapshot: create dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("vectorstore snapshot: acquire lock: %w", err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(ms.ToSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("vectorstore snapshot: marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("vectorstore snapshot: write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("vectorstore snapshot: rename: %w", err)
	}
	return nil
}

// Load reads and decodes a store snapshot from path.
func Load(ctx context.Context, path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vectorstore snapshot: read: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("vectorstore snapshot: unmarshal: %w", err)
	}
	return FromSnapshot(ctx, &snap)
}
