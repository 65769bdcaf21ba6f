// Package handler provides HTTP request handlers for the REST API.
package handler

import (
	"context"

	"github.com/vyrodovalexey/items-api/internal/model"
)

// ItemService is the set of item operations the handlers delegate to.
type ItemService interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id int) (*model.Item, error)
	Create(ctx context.Context, input *model.ItemInput) (*model.Item, error)
	Update(ctx context.Context, id int, input *model.ItemInput) (*model.Item, error)
	Delete(ctx context.Context, id int) error
	Ready(ctx context.Context) error
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}
