package store

import (
	"context"
	"sync"

	"github.com/vyrodovalexey/items-api/internal/model"
)

// MemoryStore implements Store with an in-memory collection.
// Load and Save copy the slice so callers never share backing arrays.
type MemoryStore struct {
	mu    sync.RWMutex
	items []model.Item
}

// NewMemoryStore creates a new MemoryStore seeded with items.
func NewMemoryStore(items ...model.Item) *MemoryStore {
	return &MemoryStore{
		items: cloneItems(items),
	}
}

// Load returns a copy of the stored items.
func (s *MemoryStore) Load(ctx context.Context) ([]model.Item, error) {
	if err := checkContext(ctx, "load"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneItems(s.items), nil
}

// Save replaces the stored items with a copy of items.
func (s *MemoryStore) Save(ctx context.Context, items []model.Item) error {
	if err := checkContext(ctx, "save"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneItems(items)

	return nil
}

// NextID returns the id for a new item.
func (s *MemoryStore) NextID(items []model.Item) int {
	return NextID(items)
}

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	return out
}
