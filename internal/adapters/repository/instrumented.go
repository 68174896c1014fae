package repository

import (
	"context"
	"time"

	"github.com/okian/sectorscore/pkg/metrics"
)

// Instrumented wraps a Store and records latency and error metrics per
// operation and collection.
type Instrumented struct {
	next Store
}

// Instrument returns s wrapped with metrics.
func Instrument(s Store) *Instrumented {
	return &Instrumented{next: s}
}

func observe(op, collection string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, collection, float64(time.Since(start).Microseconds())/1000.0)
	if err != nil {
		metrics.RecordStoreError(op, collection)
	}
}

// ListAll implements Store.
func (i *Instrumented) ListAll(ctx context.Context, collection string) (docs []Document, err error) {
	defer func(start time.Time) { observe("list", collection, start, err) }(time.Now())
	return i.next.ListAll(ctx, collection)
}

// WriteFields implements Store.
func (i *Instrumented) WriteFields(ctx context.Context, collection, id string, fields map[string]any) (err error) {
	defer func(start time.Time) { observe("write", collection, start, err) }(time.Now())
	return i.next.WriteFields(ctx, collection, id, fields)
}

// DeleteField implements Store.
func (i *Instrumented) DeleteField(ctx context.Context, collection, id, field string) (err error) {
	defer func(start time.Time) { observe("delete_field", collection, start, err) }(time.Now())
	return i.next.DeleteField(ctx, collection, id, field)
}

// Put implements Seeder when the wrapped store does.
func (i *Instrumented) Put(ctx context.Context, collection, id string, fields map[string]any) (err error) {
	defer func(start time.Time) { observe("put", collection, start, err) }(time.Now())
	seeder, ok := i.next.(Seeder)
	if !ok {
		return ErrNotSeedable
	}
	return seeder.Put(ctx, collection, id, fields)
}
