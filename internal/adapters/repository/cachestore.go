package repository

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/okian/allplay/pkg/metrics"
)

const (
	defaultTTL                   = 5 * time.Minute
	defaultCleanupInterval       = 10 * time.Minute
	defaultMetricsUpdateInterval = 5 * time.Second
)

// CacheStore is an in-memory Store backed by go-cache.
type CacheStore struct {
	cache *gocache.Cache

	defaultTTL            time.Duration
	cleanupInterval       time.Duration
	metricsUpdateInterval time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ Store = (*CacheStore)(nil)

// NewCacheStore constructs a cache store. Background work stops when ctx is
// done or Close is called.
func NewCacheStore(ctx context.Context, opts ...Option) *CacheStore {
	s := &CacheStore{
		defaultTTL:            defaultTTL,
		cleanupInterval:       defaultCleanupInterval,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cache = gocache.New(s.defaultTTL, s.cleanupInterval)
	s.cache.OnEvicted(func(string, any) {
		metrics.RecordCacheEviction()
	})

	s.startMetricsUpdater(ctx)
	return s
}

// Get implements Store.
func (s *CacheStore) Get(_ context.Context, key Key) (any, bool) {
	v, ok := s.cache.Get(key.String())
	if ok {
		metrics.RecordCacheHit(key.Namespace)
	} else {
		metrics.RecordCacheMiss(key.Namespace)
	}
	return v, ok
}

// Set implements Store.
func (s *CacheStore) Set(_ context.Context, key Key, value any, ttl time.Duration) error {
	if key.Namespace == "" {
		return ErrInvalidKey
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.cache.Set(key.String(), value, ttl)
	return nil
}

// Delete implements Store.
func (s *CacheStore) Delete(_ context.Context, key Key) {
	s.cache.Delete(key.String())
}

// Count implements Store.
func (s *CacheStore) Count(_ context.Context) int {
	return s.cache.ItemCount()
}

// Flush implements Store.
func (s *CacheStore) Flush(_ context.Context) {
	s.cache.Flush()
	metrics.UpdateCacheEntries(0)
}

// Close stops background metrics updates. The cache stays readable.
func (s *CacheStore) Close() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *CacheStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateCacheEntries(s.cache.ItemCount())
			}
		}
	}()
}
