package cart

import (
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/web"
)

// Handler exposes the cart endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the cart HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the cart routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("POST /cart", h.AddItem)
	mux.HandleFunc("PUT /cart/items/{id}", h.SetQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
}

// GetCart returns the actor's cart with totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	summary, err := h.service.Get(r.Context(), actor.Key())
	if err != nil {
		h.logger.Error("cart_get_failed", "Failed to load cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, summary)
}

type addItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// AddItem adds a dish to the cart, defaulting to one.
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
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.service.Add(r.Context(), actor.Key(), req.ItemID, req.Quantity); err != nil {
		if errors.Is(err, ErrItemUnavailable) {
			web.WriteError(w, http.StatusBadRequest, "Menu item is not available", requestID)
			return
		}
		h.logger.Error("cart_add_failed", "Failed to add cart item", requestID, err, map[string]interface{}{"item_id": req.ItemID})
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respondWithCart(w, r, requestID, actor.Key())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity pins an item's quantity; zero removes the item.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	var req setQuantityRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := h.service.SetQuantity(r.Context(), actor.Key(), r.PathValue("id"), req.Quantity); err != nil {
		h.logger.Error("cart_update_failed", "Failed to update cart item", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respondWithCart(w, r, requestID, actor.Key())
}

// RemoveItem drops an item from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if err := h.service.Remove(r.Context(), actor.Key(), r.PathValue("id")); err != nil {
		h.logger.Error("cart_remove_failed", "Failed to remove cart item", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respondWithCart(w, r, requestID, actor.Key())
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if err := h.service.Clear(r.Context(), actor.Key()); err != nil {
		h.logger.Error("cart_clear_failed", "Failed to clear cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	h.respondWithCart(w, r, requestID, actor.Key())
}

func (h *Handler) respondWithCart(w http.ResponseWriter, r *http.Request, requestID, actorKey string) {
	summary, err := h.service.Get(r.Context(), actorKey)
	if err != nil {
		h.logger.Error("cart_get_failed", "Failed to load cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, summary)
}
