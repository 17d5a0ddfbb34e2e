package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scansafe/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory scan history. Items are immutable
// once appended and removed only by explicit deletion.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.ScanHistoryItem
}

// NewMemoryStore creates an empty history store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores one completed scan, assigning an id and timestamp when unset
func (s *MemoryStore) Append(ctx context.Context, item *domain.ScanHistoryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.ScannedAt.IsZero() {
		item.ScannedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *item)
	return nil
}

// List returns a copy of all items scanned at or after since, newest first
func (s *MemoryStore) List(ctx context.Context, since time.Time) ([]domain.ScanHistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScanHistoryItem, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].ScannedAt.Before(since) {
			continue
		}
		out = append(out, s.items[i])
	}
	return out, nil
}

// Delete removes one item by id
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrHistoryItemNotFound
}
