// Package cache implements the keyed, TTL-bounded, single-flight store
// that backs both fetcher caches and the aggregator's envelope cache.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value  any
	expiry time.Time
}

// Store is a concurrency-safe in-memory TTL cache with single-flight
// read-through fills. The zero value is not usable; use New.
type Store struct {
	mu    sync.RWMutex
	data  map[string]entry
	group singleflight.Group
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]entry)}
}

// Get returns the value for key if it exists and has not expired. A stale
// entry is reported exactly like a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok || !time.Now().Before(e.expiry) {
		return nil, false
	}
	return e.value, true
}

// Put unconditionally writes a value with the given TTL.
func (s *Store) Put(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.data[key] = entry{value: value, expiry: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// TTLOf returns the remaining time-to-live for key, or zero if it is
// absent or already expired. Used by callers that compose several cached
// values (the envelope's min(obs_ttl, fcst_ttl) rule) and need to inspect
// the TTL a sibling fetch just wrote, without re-deriving it themselves.
func (s *Store) TTLOf(key string) time.Duration {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	remaining := time.Until(e.expiry)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Purge drops every entry.
func (s *Store) Purge() {
	s.mu.Lock()
	s.data = make(map[string]entry)
	s.mu.Unlock()
}

// Producer computes the value to cache under a key on a miss.
type Producer func(ctx context.Context) (any, error)

// GetOrFill returns the fresh value for key, filling it through producer on
// a miss. Concurrent calls on the same key coalesce into a single producer
// invocation; every waiter receives the same value or the same error.
// Producer failures are never cached. If ctx is canceled before the shared
// fill completes, this caller returns ctx.Err() at once. The producer runs
// with the context of the caller that started the fill, so canceling that
// caller's context also cancels the context the shared fill sees.
func (s *Store) GetOrFill(ctx context.Context, key string, ttl time.Duration, producer Producer) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	resultCh := s.group.DoChan(key, func() (any, error) {
		// Re-check freshness: another flight may have populated the key
		// while we were queued behind the singleflight lock.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fill is a type-safe wrapper around Store.GetOrFill for callers that know
// their value type.
func Fill[T any](ctx context.Context, s *Store, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	v, err := s.GetOrFill(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// ProducerWithTTL computes both the value to cache and the TTL to cache it
// under, for producers whose freshness window (e.g. next NDBC publish
// minute, next model cycle) is only known once the fetch completes.
type ProducerWithTTL func(ctx context.Context) (any, time.Duration, error)

// GetOrFillTTL is GetOrFill for a producer that determines its own TTL: the
// Put on a miss always uses the TTL producer returns alongside its value.
func (s *Store) GetOrFillTTL(ctx context.Context, key string, producer ProducerWithTTL) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	resultCh := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, ttl, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FillTTL is the type-safe wrapper around GetOrFillTTL.
func FillTTL[T any](ctx context.Context, s *Store, key string, producer func(context.Context) (T, time.Duration, error)) (T, error) {
	v, err := s.GetOrFillTTL(ctx, key, func(ctx context.Context) (any, time.Duration, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
