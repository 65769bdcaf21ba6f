// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/items-api/internal/model"
)

// Store defines the persistence contract for the item collection.
// The whole collection is loaded and saved at once.
type Store interface {
	// Load returns all items in insertion order. A store with no saved
	// state yields an empty, non-nil slice.
	Load(ctx context.Context) ([]model.Item, error)

	// Save replaces the persisted collection with items.
	Save(ctx context.Context, items []model.Item) error

	// NextID returns the id to assign to a new item appended to items.
	NextID(items []model.Item) int
}

// StorageError reports a failure to read or write persistent state.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s items: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s items %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NextID returns one plus the largest id in items, or 1 when items is empty.
func NextID(items []model.Item) int {
	maxID := 0
	for _, item := range items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}

// checkContext returns a wrapped context error if ctx is already done.
func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s items: %w", op, ctx.Err())
	default:
		return nil
	}
}
