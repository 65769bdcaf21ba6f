// Package service implements the item operations on top of a Store.
// Every call loads the full collection and every mutating call saves it back.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/items-api/internal/auth"
	"github.com/vyrodovalexey/items-api/internal/model"
	"github.com/vyrodovalexey/items-api/internal/store"
)

// ErrItemNotFound is returned when no item has the requested id.
var ErrItemNotFound = errors.New("item not found")

// ItemService provides list, get, create, update and delete over a Store.
type ItemService struct {
	store  store.Store
	logger *zap.Logger
}

// New creates an ItemService.
func New(s store.Store, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:  s,
		logger: logger,
	}
}

// List returns every item in insertion order.
func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

// Get returns the item with the given id.
func (s *ItemService) Get(ctx context.Context, id int) (*model.Item, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	return &items[idx], nil
}

// Create validates input, appends a new item with the next id and saves.
func (s *ItemService) Create(ctx context.Context, input *model.ItemInput) (*model.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	item := model.NewItem(s.store.NextID(items), input)
	items = append(items, item)

	if err := s.store.Save(ctx, items); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Debug("item created", zap.Int("id", item.ID), zap.Int("units", item.Units), subjectField(ctx))

	return &item, nil
}

// Update validates input and overwrites the fields of the item with the given id.
// The stored id never changes.
func (s *ItemService) Update(ctx context.Context, id int, input *model.ItemInput) (*model.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	items[idx].Apply(input)

	if err := s.store.Save(ctx, items); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.logger.Debug("item updated", zap.Int("id", id), zap.Int("units", items[idx].Units), subjectField(ctx))

	updated := items[idx]
	return &updated, nil
}

// Delete removes the item with the given id, keeping the order of the rest.
func (s *ItemService) Delete(ctx context.Context, id int) error {
	items, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return ErrItemNotFound
	}

	items = slices.Delete(items, idx, idx+1)

	if err := s.store.Save(ctx, items); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.Debug("item deleted", zap.Int("id", id), subjectField(ctx))

	return nil
}

// Ready reports whether the store can currently be loaded.
func (s *ItemService) Ready(ctx context.Context) error {
	if _, err := s.store.Load(ctx); err != nil {
		return fmt.Errorf("readiness check: %w", err)
	}
	return nil
}

// subjectField names the authenticated caller, or "anonymous" when auth is off.
func subjectField(ctx context.Context) zap.Field {
	if info, ok := auth.FromContext(ctx); ok {
		return zap.String("subject", info.Subject)
	}
	return zap.String("subject", "anonymous")
}

// indexOf returns the position of the first item with id, or -1.
func indexOf(items []model.Item, id int) int {
	return slices.IndexFunc(items, func(item model.Item) bool {
		return item.ID == id
	})
}
