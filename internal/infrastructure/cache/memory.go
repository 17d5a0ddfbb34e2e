package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/scansafe/backend/internal/domain"
)

// storedRecord is the cached envelope: the record plus when it was stored,
// which the resolver compares against its freshness window
type storedRecord struct {
	Record   domain.ProductRecord `json:"record"`
	StoredAt time.Time            `json:"storedAt"`
}

// MemoryStore is an in-process product cache. Retention is independent of the
// resolver's freshness window: stale records stay retrievable so they can be
// served while a refresh runs.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates a memory store evicting entries after retention
func NewMemoryStore(retention time.Duration) *MemoryStore {
	if retention <= 0 {
		retention = gocache.NoExpiration
	}
	return &MemoryStore{
		c: gocache.New(retention, 10*time.Minute),
	}
}

// Get retrieves a cached record and its storage time
func (s *MemoryStore) Get(ctx context.Context, key string) (*domain.ProductRecord, time.Time, error) {
	v, found := s.c.Get(key)
	if !found {
		return nil, time.Time{}, domain.ErrCacheMiss
	}
	stored := v.(storedRecord)
	record := stored.Record
	return &record, stored.StoredAt, nil
}

// Put stores a copy of the record under key
func (s *MemoryStore) Put(ctx context.Context, key string, record *domain.ProductRecord) error {
	s.c.SetDefault(key, storedRecord{Record: *record, StoredAt: time.Now()})
	return nil
}

// Delete removes a cached record
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

// Size returns the current number of cached records (for monitoring)
func (s *MemoryStore) Size() int {
	return s.c.ItemCount()
}
