package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/services/cart"
	"storefront-system/internal/services/pricing"
	"storefront-system/internal/web"
)

// CartReader supplies the cart snapshot frozen into an order at checkout.
type CartReader interface {
	Snapshot(ctx context.Context, actorKey string) ([]models.OrderLine, error)
	Clear(ctx context.Context, actorKey string) error
}

// CouponEvaluator validates coupon codes against the order subtotal and
// records redemptions.
type CouponEvaluator interface {
	Apply(ctx context.Context, code string, subtotal int64) (*models.Coupon, int64, error)
	Redeem(ctx context.Context, couponID string) error
}

// Handler exposes the order endpoints for both the storefront and the
// admin surface.
type Handler struct {
	service *Service
	carts   CartReader
	coupons CouponEvaluator
	logger  *logger.Logger
}

// NewHandler creates the order HTTP handler.
func NewHandler(service *Service, carts CartReader, coupons CouponEvaluator, log *logger.Logger) *Handler {
	return &Handler{service: service, carts: carts, coupons: coupons, logger: log}
}

// RegisterStorefront mounts the customer-facing order routes.
func (h *Handler) RegisterStorefront(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.Checkout)
	mux.HandleFunc("GET /orders", h.ListMine)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
}

// RegisterAdmin mounts the back-office order routes. The admin service
// runs on its own port; admin enforcement is middleware's job.
func (h *Handler) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders", h.ListAll)
	mux.HandleFunc("POST /orders/{id}/status", h.UpdateStatus)
	mux.HandleFunc("PUT /orders/{id}/estimate", h.UpdateEstimate)
}

type checkoutRequest struct {
	Customer      models.CustomerInfo  `json:"customer"`
	Address       models.Address       `json:"delivery_address"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CouponCode    string               `json:"coupon_code,omitempty"`
	Notes         string               `json:"notes,omitempty"`
}

type checkoutResponse struct {
	Order   *models.Order    `json:"order"`
	Pricing pricingBreakdown `json:"pricing"`
}

type pricingBreakdown struct {
	Subtotal     int64 `json:"subtotal"`
	Discount     int64 `json:"discount"`
	DeliveryFee  int64 `json:"delivery_fee"`
	TotalPayable int64 `json:"total_payable"`
}

// Checkout freezes the actor's cart into a new order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	var req checkoutRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse checkout request", requestID, err, nil)
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := req.Customer.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if err := req.Address.Validate(); err != nil {
		web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	if !req.PaymentMethod.Valid() {
		web.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown payment method %q", req.PaymentMethod), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	lines, err := h.carts.Snapshot(ctx, actor.Key())
	if err != nil {
		if errors.Is(err, cart.ErrItemUnavailable) {
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("checkout_failed", "Failed to load cart", requestID, err, nil)
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

	var coupon *models.Coupon
	var discount int64
	if req.CouponCode != "" {
		coupon, discount, err = h.coupons.Apply(ctx, req.CouponCode, subtotal)
		if err != nil {
			if errors.Is(err, pricing.ErrInvalidCoupon) {
				web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
				return
			}
			h.logger.Error("checkout_failed", "Coupon lookup failed", requestID, err, map[string]interface{}{"coupon_code": req.CouponCode})
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}
	}

	o, err := h.service.Create(ctx, actor, CheckoutInput{
		Lines:         lines,
		Customer:      req.Customer,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
		Discount:      discount,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			web.WriteError(w, http.StatusBadRequest, "Cart is empty", requestID)
			return
		}
		h.logger.Error("checkout_failed", "Failed to create order", requestID, err, map[string]interface{}{"customer_name": req.Customer.Name})
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	// Redemption and cart clearing are best-effort: the order is already
	// placed and must not be rolled back over bookkeeping.
	if coupon != nil {
		if err := h.coupons.Redeem(ctx, coupon.ID); err != nil {
			h.logger.Error("coupon_redeem_failed", "Failed to count coupon usage", requestID, err, map[string]interface{}{"coupon_id": coupon.ID})
		}
	}
	if err := h.carts.Clear(ctx, actor.Key()); err != nil {
		h.logger.Error("cart_clear_failed", "Failed to clear cart after checkout", requestID, err, nil)
	}

	web.WriteJSON(w, http.StatusCreated, checkoutResponse{
		Order: o,
		Pricing: pricingBreakdown{
			Subtotal:     subtotal,
			Discount:     discount,
			DeliveryFee:  pricing.DeliveryFee(subtotal - discount),
			TotalPayable: o.TotalAmount + pricing.DeliveryFee(subtotal-discount),
		},
	})
}

// ListMine returns the acting user's order history.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	orders, err := h.service.ListForActor(r.Context(), web.ActorFrom(r.Context()))
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder returns a single order. Customers only see their own; guests
// only see guest orders.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	o, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_get_failed", "Failed to load order", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	if !actor.Admin && o.UserID != actor.ID {
		web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

// ListAll returns every order, optionally filtered by a comma-separated
// status list.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var orders []models.Order
	var err error

	if filter := r.URL.Query().Get("status"); filter != "" {
		var statuses []models.OrderStatus
		for _, raw := range strings.Split(filter, ",") {
			s := models.OrderStatus(strings.TrimSpace(raw))
			if !s.Valid() {
				web.WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw), requestID)
				return
			}
			statuses = append(statuses, s)
		}
		orders, err = h.service.ListByStatus(r.Context(), statuses...)
	} else {
		orders, err = h.service.List(r.Context())
	}
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateStatus advances an order along the lifecycle.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	orderID := r.PathValue("id")

	var req updateStatusRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	o, err := h.service.AdvanceStatus(r.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
		case errors.Is(err, ErrInvalidTransition):
			web.WriteError(w, http.StatusConflict, err.Error(), requestID)
		default:
			h.logger.Error("status_update_failed", "Failed to update order status", requestID, err, map[string]interface{}{"order_id": orderID})
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}

type updateEstimateRequest struct {
	Minutes int `json:"minutes"`
}

// UpdateEstimate revises the delivery estimate of an active order.
func (h *Handler) UpdateEstimate(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	orderID := r.PathValue("id")

	var req updateEstimateRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	o, err := h.service.UpdateEstimatedMinutes(r.Context(), orderID, req.Minutes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			web.WriteError(w, http.StatusNotFound, "Order not found", requestID)
		case errors.Is(err, ErrEstimateOutOfRange):
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		case errors.Is(err, ErrInvalidTransition):
			web.WriteError(w, http.StatusConflict, err.Error(), requestID)
		default:
			h.logger.Error("estimate_update_failed", "Failed to update estimate", requestID, err, map[string]interface{}{"order_id": orderID})
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}
	web.WriteJSON(w, http.StatusOK, o)
}
