package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/medassist/clinic-discovery/internal/domain/providers"
)

// defaultMaxEntries bounds memory when the caller passes no explicit size.
const defaultMaxEntries = 256

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements the CacheProvider interface in process memory. The
// LRU bound keeps memory finite; expiry is checked lazily on read, so expired
// entries are treated as absent without a background sweeper.
type MemoryAdapter struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryAdapter creates a new in-memory cache adapter holding at most
// maxEntries entries. maxEntries <= 0 selects the default bound.
func NewMemoryAdapter(maxEntries int) (providers.CacheProvider, error) {
	return newMemoryAdapter(maxEntries, time.Now)
}

// NewMemoryAdapterWithClock creates an adapter with an injected clock, used by
// tests to exercise expiry without sleeping.
func NewMemoryAdapterWithClock(maxEntries int, now func() time.Time) (providers.CacheProvider, error) {
	return newMemoryAdapter(maxEntries, now)
}

func newMemoryAdapter(maxEntries int, now func() time.Time) (*MemoryAdapter, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryAdapter{entries: entries, now: now}, nil
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	entry, ok := a.entries.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	if a.now().After(entry.expiresAt) {
		a.entries.Remove(key)
		return nil, providers.ErrCacheMiss
	}
	return entry.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.entries.Add(key, memoryEntry{
		value:     value,
		expiresAt: a.now().Add(time.Duration(expirationSeconds) * time.Second),
	})
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.entries.Remove(key)
	return nil
}

// Exists checks if a live key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	if err == providers.ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
