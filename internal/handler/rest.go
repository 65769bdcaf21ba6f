package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/items-api/internal/model"
	"github.com/vyrodovalexey/items-api/internal/service"
	"github.com/vyrodovalexey/items-api/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// Response messages.
const (
	MsgItemNotFound  = "Item not found"
	MsgItemDeleted   = "Item deleted"
	MsgInternalError = "internal server error"
)

// Probe statuses.
const (
	StatusHealthy  = "healthy"
	StatusReady    = "ready"
	StatusNotReady = "not ready"
)

const maxRequestBodyLen = 1 << 20 // 1 MB

// RESTHandler handles REST API requests for items.
type RESTHandler struct {
	service ItemService
	logger  *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(svc ItemService, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	h.RegisterProbes(router)
	router.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	router.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/item/{id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/item/{id:[0-9]+}", h.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/item/{id:[0-9]+}", h.DeleteItem).Methods(http.MethodDelete)
}

// RegisterProbes registers only the health and readiness routes.
func (h *RESTHandler) RegisterProbes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  StatusHealthy,
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, response)
}

// ReadyCheck handles GET /ready requests. The service is ready when the
// item collection can be loaded.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: StatusNotReady})
		return
	}

	h.writeJSON(w, http.StatusOK, ReadyResponse{Status: StatusReady})
}

// ListItems handles GET /items requests.
func (h *RESTHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list items")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

// GetItem handles GET /item/{id} requests.
func (h *RESTHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get item")
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /items requests.
func (h *RESTHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "create item")
		return
	}

	h.writeJSON(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /item/{id} requests.
func (h *RESTHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err, "update item")
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /item/{id} requests.
func (h *RESTHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.MessageResponse{Message: MsgItemDeleted})
}

// decodeInput reads and validates the request body, writing a 400 on failure.
func (h *RESTHandler) decodeInput(w http.ResponseWriter, r *http.Request) (*model.ItemInput, bool) {
	input, err := model.DecodeItemInput(http.MaxBytesReader(w, r.Body, maxRequestBodyLen))
	if err != nil {
		h.logger.Warn("validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}

	return input, true
}

// parseID extracts the numeric item id from the route. The route pattern
// only admits digits, so the one failure left is overflow, and an id that
// does not fit in an int cannot name a stored item.
func (h *RESTHandler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusNotFound, MsgItemNotFound)
		return 0, false
	}

	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *RESTHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		h.writeError(w, http.StatusNotFound, MsgItemNotFound)
	case errors.Is(err, model.ErrInvalidUnits), errors.Is(err, model.ErrInvalidDescription),
		errors.Is(err, model.ErrInvalidBody):
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
	default:
		var storageErr *store.StorageError
		if errors.As(err, &storageErr) {
			h.logger.Error("storage failure",
				zap.String("operation", operation),
				zap.String("storage_op", storageErr.Op),
				zap.String("path", storageErr.Path),
				zap.Error(err),
			)
		} else {
			h.logger.Error("service operation failed", zap.String("operation", operation), zap.Error(err))
		}
		h.writeError(w, http.StatusInternalServerError, MsgInternalError)
	}
}

// validationMessage returns the client-facing text for a validation error.
func validationMessage(err error) string {
	for _, sentinel := range []error{model.ErrInvalidUnits, model.ErrInvalidDescription} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return model.ErrInvalidBody.Error()
}
