package catalog

import (
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/web"
)

// Handler exposes the menu endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterStorefront mounts the read-only menu routes.
func (h *Handler) RegisterStorefront(mux *http.ServeMux) {
	mux.HandleFunc("GET /menu", h.ListMenu)
	mux.HandleFunc("GET /menu/{id}", h.GetItem)
	mux.HandleFunc("GET /categories", h.ListCategories)
}

// RegisterAdmin mounts the menu management routes.
func (h *Handler) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("POST /menu", h.CreateItem)
	mux.HandleFunc("PUT /menu/{id}", h.UpdateItem)
	mux.HandleFunc("POST /menu/{id}/availability", h.SetAvailability)
	mux.HandleFunc("DELETE /menu/{id}", h.DeleteItem)
}

// ListMenu returns the full menu with its categories.
func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("menu_list_failed", "Failed to list menu", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("menu_list_failed", "Failed to list categories", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	if categories == nil {
		categories = []models.Category{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":      items,
		"categories": categories,
	})
}

// ListCategories returns the category list in display order.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("menu_list_failed", "Failed to list categories", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetItem returns a single menu item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	item, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeItemError(w, err, requestID, "Failed to load menu item")
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

// CreateItem adds a new dish to the menu.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var item models.MenuItem
	if err := web.DecodeJSON(r, &item); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if err := item.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	created, err := h.service.Create(r.Context(), &item)
	if err != nil {
		h.logger.Error("menu_create_failed", "Failed to create menu item", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusCreated, created)
}

// UpdateItem replaces an existing dish.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var item models.MenuItem
	if err := web.DecodeJSON(r, &item); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if err := item.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("id"), &item)
	if err != nil {
		h.writeItemError(w, err, requestID, "Failed to update menu item")
		return
	}
	web.WriteJSON(w, http.StatusOK, updated)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability toggles whether a dish can be ordered.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var req availabilityRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	item, err := h.service.SetAvailability(r.Context(), r.PathValue("id"), req.Available)
	if err != nil {
		h.writeItemError(w, err, requestID, "Failed to set availability")
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem removes a dish from the menu.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeItemError(w, err, requestID, "Failed to delete menu item")
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (h *Handler) writeItemError(w http.ResponseWriter, err error, requestID, logMessage string) {
	if errors.Is(err, ErrNotFound) {
		web.WriteError(w, http.StatusNotFound, "Menu item not found", requestID)
		return
	}
	h.logger.Error("menu_request_failed", logMessage, requestID, err, nil)
	web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
}
