// Package rediscache puts a Redis read-through cache in front of a page store.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"prompt_page_studio/pageconfig"
	"prompt_page_studio/store"
)

// DefaultTTL is how long a cached page record lives.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "prompt_page:"

// Store caches page records from the wrapped store. Custom kickstarter
// calls pass straight through. Cache failures are logged and never fail a
// call the wrapped store could serve.
type Store struct {
	store.Store
	client *redis.Client
	ttl    time.Duration
}

var _ store.Store = (*Store)(nil)

// Dial connects to Redis at addr and wraps next.
func Dial(addr, password string, db int, ttl time.Duration, next store.Store) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return New(rdb, ttl, next), nil
}

// New wraps next with an existing client.
func New(client *redis.Client, ttl time.Duration, next store.Store) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{Store: next, client: client, ttl: ttl}
}

func key(pageID string) string { return keyPrefix + pageID }

func (s *Store) Load(ctx context.Context, pageID string) (pageconfig.Record, error) {
	val, err := s.client.Get(ctx, key(pageID)).Result()
	switch {
	case err == nil:
		return pageconfig.Record(val), nil
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("page_id", pageID).Msg("page cache read failed")
	}

	rec, err := s.Store.Load(ctx, pageID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, pageID, rec)
	return rec, nil
}

// Save writes through: the wrapped store first, then the cache.
func (s *Store) Save(ctx context.Context, pageID string, rec pageconfig.Record) error {
	if err := s.Store.Save(ctx, pageID, rec); err != nil {
		return err
	}
	s.put(ctx, pageID, rec)
	return nil
}

func (s *Store) put(ctx context.Context, pageID string, rec pageconfig.Record) {
	if err := s.client.Set(ctx, key(pageID), string(rec), s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("page_id", pageID).Msg("page cache write failed")
		// a stale entry is worse than none
		s.client.Del(ctx, key(pageID))
	}
}

func (s *Store) Close() error {
	cerr := s.client.Close()
	if err := s.Store.Close(); err != nil {
		return err
	}
	return cerr
}
