package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalBench/internal/domain/models"
	domrepo "SignalBench/internal/domain/repository"
	pkgcache "SignalBench/pkg/cache"
)

// CachedSignalStore caches window queries in front of a remote store.
// Parameter sweeps re-read identical windows many times; the underlying
// table is append-only within a run, so a TTL cache is safe.
type CachedSignalStore struct {
	inner domrepo.SignalStore
	cache pkgcache.Service
	ttl   time.Duration
}

func NewCachedSignalStore(inner domrepo.SignalStore, cache pkgcache.Service, ttl time.Duration) *CachedSignalStore {
	return &CachedSignalStore{inner: inner, cache: cache, ttl: ttl}
}

func queryKey(from, to time.Time, h models.Horizon) string {
	return fmt.Sprintf("signals:%d:%d:%s", from.Unix(), to.Unix(), h)
}

func (s *CachedSignalStore) Query(ctx context.Context, from, to time.Time, h models.Horizon) ([]models.Signal, error) {
	key := queryKey(from, to, h)

	var cached []models.Signal
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, pkgcache.ErrCacheMiss) {
		// Degrade to the inner store on cache backend failures.
		cached = nil
	}

	signals, err := s.inner.Query(ctx, from, to, h)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, signals, s.ttl)
	return signals, nil
}

func (s *CachedSignalStore) Strategies(ctx context.Context, from, to time.Time) ([]string, error) {
	return s.inner.Strategies(ctx, from, to)
}

func (s *CachedSignalStore) Close() error {
	_ = s.cache.Close()
	return s.inner.Close()
}
