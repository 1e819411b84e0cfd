package wishlist

import (
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/web"
)

// Handler exposes the wishlist endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the wishlist HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the wishlist routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /wishlist", h.List)
	mux.HandleFunc("POST /wishlist", h.AddItem)
	mux.HandleFunc("DELETE /wishlist/{id}", h.RemoveItem)
	mux.HandleFunc("DELETE /wishlist", h.Clear)
}

// List returns the actor's saved items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	items, err := h.service.List(r.Context(), actor.Key())
	if err != nil {
		h.logger.Error("wishlist_list_failed", "Failed to list wishlist", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

type addItemRequest struct {
	ItemID string `json:"item_id"`
}

// AddItem saves a dish for later.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	var req addItemRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if req.ItemID == "" {
		web.WriteError(w, http.StatusBadRequest, "item_id is required", requestID)
		return
	}

	if err := h.service.Add(r.Context(), actor.Key(), req.ItemID); err != nil {
		if errors.Is(err, ErrUnknownItem) {
			web.WriteError(w, http.StatusNotFound, "Menu item not found", requestID)
			return
		}
		h.logger.Error("wishlist_add_failed", "Failed to add wishlist item", requestID, err, map[string]interface{}{"item_id": req.ItemID})
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// RemoveItem drops a saved dish.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if err := h.service.Remove(r.Context(), actor.Key(), r.PathValue("id")); err != nil {
		h.logger.Error("wishlist_remove_failed", "Failed to remove wishlist item", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// Clear empties the wishlist.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if err := h.service.Clear(r.Context(), actor.Key()); err != nil {
		h.logger.Error("wishlist_clear_failed", "Failed to clear wishlist", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}
