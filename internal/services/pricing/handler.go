package pricing

import (
	"context"
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/services/cart"
	"storefront-system/internal/web"
)

// CartSource supplies the lines a quote is priced against.
type CartSource interface {
	Snapshot(ctx context.Context, actorKey string) ([]models.OrderLine, error)
}

// Handler exposes the coupon quote endpoint.
type Handler struct {
	service *Service
	carts   CartSource
	logger  *logger.Logger
}

// NewHandler creates the pricing HTTP handler.
func NewHandler(service *Service, carts CartSource, log *logger.Logger) *Handler {
	return &Handler{service: service, carts: carts, logger: log}
}

// Register mounts the pricing routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /coupons/quote", h.Quote)
}

type quoteRequest struct {
	Code string `json:"code"`
}

type quoteResponse struct {
	Code         string `json:"code"`
	Subtotal     int64  `json:"subtotal"`
	Discount     int64  `json:"discount"`
	DeliveryFee  int64  `json:"delivery_fee"`
	TotalPayable int64  `json:"total_payable"`
}

// Quote prices the actor's current cart under a coupon code without
// placing an order or counting a redemption.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	var req quoteRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if req.Code == "" {
		web.WriteError(w, http.StatusBadRequest, "code is required", requestID)
		return
	}

	lines, err := h.carts.Snapshot(r.Context(), actor.Key())
	if err != nil {
		if errors.Is(err, cart.ErrItemUnavailable) {
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("quote_failed", "Failed to load cart", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if len(lines) == 0 {
		web.WriteError(w, http.StatusBadRequest, "Cart is empty", requestID)
		return
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.Subtotal()
	}

	coupon, discount, err := h.service.Apply(r.Context(), req.Code, subtotal)
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("quote_failed", "Coupon lookup failed", requestID, err, map[string]interface{}{"code": req.Code})
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, quoteResponse{
		Code:         coupon.Code,
		Subtotal:     subtotal,
		Discount:     discount,
		DeliveryFee:  DeliveryFee(subtotal - discount),
		TotalPayable: subtotal - discount + DeliveryFee(subtotal-discount),
	})
}
