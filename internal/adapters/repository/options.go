package repository

import "github.com/okian/sectorscore/pkg/logger"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDocuments preloads documents into a collection.
func WithDocuments(collection string, docs ...Document) Option {
	return func(s *MemoryStore) {
		for _, d := range docs {
			s.put(collection, d.ID, d.Fields)
		}
	}
}
