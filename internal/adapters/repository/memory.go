package repository

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/okian/sectorscore/pkg/logger"
	"gopkg.in/yaml.v3"
)

// MemoryStore is a mutex-guarded, in-process Store.
//
// ListAll returns documents in ascending id order. Field maps are copied on
// the way in and on the way out, so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // collection -> id -> fields
	log  logger.Logger
}

// NewMemoryStore creates an empty store and applies opts.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]map[string]map[string]any),
		log:  logger.Get().Named("memory-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns a copy of every document in collection.
func (s *MemoryStore) ListAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.data[collection]
	ids := slices.Sorted(maps.Keys(docs))
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, Document{ID: id, Fields: maps.Clone(docs[id])})
	}
	return out, nil
}

// WriteFields merges fields into an existing document.
func (s *MemoryStore) WriteFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	maps.Copy(doc, fields)
	return nil
}

// DeleteField removes field from an existing document. Deleting an absent
// field is not an error.
func (s *MemoryStore) DeleteField(ctx context.Context, collection, id, field string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(doc, field)
	return nil
}

// Put creates or replaces a document.
func (s *MemoryStore) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, fields)
	return nil
}

// Get returns a copy of one document.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return Document{ID: id, Fields: maps.Clone(doc)}, nil
}

// Count returns the number of documents in collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *MemoryStore) put(collection, id string, fields map[string]any) {
	col, ok := s.data[collection]
	if !ok {
		col = make(map[string]map[string]any)
		s.data[collection] = col
	}
	doc := maps.Clone(fields)
	if doc == nil {
		doc = make(map[string]any)
	}
	col[id] = doc
}

// seedFile is the on-disk fixture layout: collection -> id -> fields.
type seedFile map[string]map[string]map[string]any

// LoadSeed reads a YAML fixture and puts every document it contains.
func (s *MemoryStore) LoadSeed(ctx context.Context, r io.Reader) (int, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	n := 0
	for collection, docs := range seed {
		for id, fields := range docs {
			if err := s.Put(ctx, collection, id, fields); err != nil {
				return n, fmt.Errorf("seed %s/%s: %w", collection, id, err)
			}
			n++
		}
	}
	s.log.Info(ctx, "memory store seeded", logger.Int("documents", n))
	return n, nil
}

// LoadSeedFile opens path and calls LoadSeed.
func (s *MemoryStore) LoadSeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied fixture path
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	defer func() { _ = f.Close() }()
	return s.LoadSeed(ctx, f)
}
