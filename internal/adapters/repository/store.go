// Package repository defines the document store interface, the in-memory
// implementation and the errors shared by every store adapter.
package repository

import "context"

// Document is one stored record: its id plus its raw field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store provides read/write access to the tournament collections.
type Store interface {
	// ListAll returns every document of a collection.
	ListAll(ctx context.Context, collection string) ([]Document, error)

	// WriteFields merges fields into an existing document.
	// Returns ErrNotFound if the document does not exist.
	WriteFields(ctx context.Context, collection, id string, fields map[string]any) error

	// DeleteField removes one field from an existing document.
	// Returns ErrNotFound if the document does not exist.
	DeleteField(ctx context.Context, collection, id, field string) error
}

// Seeder creates or replaces whole documents. Stores that can be populated
// by fixtures and the simulator implement it.
type Seeder interface {
	Put(ctx context.Context, collection, id string, fields map[string]any) error
}

// Collections names the three collections a tournament uses.
type Collections struct {
	Competitors   string `koanf:"competitors" yaml:"competitors" validate:"required"`
	HourlyEntries string `koanf:"hourly_entries" yaml:"hourly_entries" validate:"required"`
	BigCatches    string `koanf:"big_catches" yaml:"big_catches" validate:"required"`
}

// DefaultCollections returns the standard collection names.
func DefaultCollections() Collections {
	return Collections{
		Competitors:   "competitors",
		HourlyEntries: "hourly_entries",
		BigCatches:    "big_catches",
	}
}
