// Package redisstore implements repository.Store on Redis hashes.
//
// A document is the hash <prefix>:<collection>:<id>; the set
// <prefix>:<collection> holds the ids of every document in the collection.
// Hash values come back as strings; the domain decoders parse numbers.
package redisstore

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/okian/sectorscore/internal/adapters/repository"
	"github.com/okian/sectorscore/pkg/logger"
)

// Store is a Redis-backed repository.Store.
type Store struct {
	client redis.Cmdable
	prefix string
	log    logger.Logger
}

var (
	_ repository.Store  = (*Store)(nil)
	_ repository.Seeder = (*Store)(nil)
)

// New wraps an existing client.
func New(client redis.Cmdable, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "sectorscore",
		log:    logger.Get().Named("redis-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to addr and pings it.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*Store, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return New(client, opts...), client, nil
}

func (s *Store) setKey(collection string) string {
	return s.prefix + ":" + collection
}

func (s *Store) docKey(collection, id string) string {
	return s.prefix + ":" + collection + ":" + id
}

// ListAll reads the membership set, then every hash in one pipeline.
// Documents are returned in ascending id order.
func (s *Store) ListAll(ctx context.Context, collection string) ([]repository.Document, error) {
	ids, err := s.client.SMembers(ctx, s.setKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", collection, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	slices.Sort(ids)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.docKey(collection, id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", collection, err)
	}

	docs := make([]repository.Document, 0, len(ids))
	for i, id := range ids {
		h := cmds[i].Val()
		if len(h) == 0 {
			// set member without a hash: dangling id
			s.log.Warn(ctx, "dangling document id",
				logger.String("collection", collection), logger.String("id", id))
			continue
		}
		fields := make(map[string]any, len(h))
		for k, v := range h {
			fields[k] = v
		}
		docs = append(docs, repository.Document{ID: id, Fields: fields})
	}
	return docs, nil
}

// WriteFields sets fields on an existing hash.
func (s *Store) WriteFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.mustExist(ctx, collection, id); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.docKey(collection, id), flatten(fields)...).Err(); err != nil {
		return fmt.Errorf("hset %s/%s: %w", collection, id, err)
	}
	return nil
}

// DeleteField removes one field from an existing hash.
func (s *Store) DeleteField(ctx context.Context, collection, id, field string) error {
	if err := s.mustExist(ctx, collection, id); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, s.docKey(collection, id), field).Err(); err != nil {
		return fmt.Errorf("hdel %s/%s: %w", collection, id, err)
	}
	return nil
}

// Put replaces a document and registers its id in the collection set.
func (s *Store) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == "" {
		return repository.ErrEmptyID
	}
	key := s.docKey(collection, id)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(fields) > 0 {
			p.HSet(ctx, key, flatten(fields)...)
		}
		p.SAdd(ctx, s.setKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) mustExist(ctx context.Context, collection, id string) error {
	n, err := s.client.Exists(ctx, s.docKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("exists %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, repository.ErrNotFound)
	}
	return nil
}

// flatten turns fields into HSET arguments in field-name order.
func flatten(fields map[string]any) []any {
	args := make([]any, 0, 2*len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	return args
}
