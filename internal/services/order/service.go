package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// Estimated delivery bounds, in minutes.
const (
	DefaultEstimatedMinutes = 30
	MinEstimatedMinutes     = 10
	MaxEstimatedMinutes     = 120
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned for an illegal status advance.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEstimateOutOfRange is returned when an estimate update falls
	// outside the practical bounds.
	ErrEstimateOutOfRange = fmt.Errorf("estimated minutes must be between %d and %d", MinEstimatedMinutes, MaxEstimatedMinutes)
	// ErrNotFound is returned for operations referencing an unknown order.
	ErrNotFound = errors.New("order not found")
)

// CheckoutInput carries everything captured on the checkout form plus the
// cart snapshot. Discount must already be validated by the coupon
// evaluator; it is the only path by which the frozen total deviates from
// the line subtotals.
type CheckoutInput struct {
	Lines         []models.OrderLine
	Customer      models.CustomerInfo
	Address       models.Address
	PaymentMethod models.PaymentMethod
	CouponCode    string
	Discount      int64
	Notes         string
}

// Service owns the canonical order state machine: creation from a cart
// snapshot, status advancement, estimate revision and delivery
// finalization.
type Service struct {
	store    Store
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time

	// mu serializes read-modify-write mutations of individual orders.
	// The storage contract is whole-order replace, so concurrent HTTP
	// requests must not interleave between read and write.
	mu sync.Mutex
}

// NewService creates the lifecycle engine.
func NewService(store Store, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the checkout input, freezes the cart snapshot into a
// new order and persists it. Checkout skips the pending state: orders are
// born confirmed, pending being reserved for a future payment-hold step.
func (s *Service) Create(ctx context.Context, actor models.Actor, in CheckoutInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := in.Customer.Validate(); err != nil {
		return nil, err
	}
	if err := in.Address.Validate(); err != nil {
		return nil, err
	}
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", in.PaymentMethod)
	}
	for _, line := range in.Lines {
		if line.ItemID == "" || line.Quantity <= 0 {
			return nil, fmt.Errorf("invalid order line for item %q", line.ItemID)
		}
	}

	now := s.now()

	id, err := s.generateID(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	o := &models.Order{
		ID:               id,
		UserID:           actor.ID,
		Customer:         in.Customer,
		Lines:            in.Lines,
		DeliveryAddress:  in.Address,
		Status:           models.StatusConfirmed,
		PaymentMethod:    in.PaymentMethod,
		CouponCode:       in.CouponCode,
		Discount:         in.Discount,
		Notes:            in.Notes,
		EstimatedMinutes: DefaultEstimatedMinutes,
		CreatedAt:        now,
	}
	o.EstimatedDelivery = now.Add(time.Duration(o.EstimatedMinutes) * time.Minute)

	total := o.Subtotal() - in.Discount
	if total < 0 {
		total = 0
	}
	o.TotalAmount = total

	if err := s.store.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("order_created", fmt.Sprintf("Order %s created", o.ID), "", map[string]interface{}{
		"order_id":     o.ID,
		"total_amount": o.TotalAmount,
		"line_count":   len(o.Lines),
	})

	s.notifier.OrderPlaced(ctx, o)
	return o, nil
}

// AdvanceStatus moves an order to the given target status. The target
// must be the unique successor in the linear flow, or cancelled from any
// non-terminal state. The delivered transition stamps DeliveredAt exactly
// once.
func (s *Service) AdvanceStatus(ctx context.Context, orderID string, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.transitionAllowed(o.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	old := o.Status
	o.Status = target
	if target == models.StatusDelivered {
		deliveredAt := s.now()
		o.DeliveredAt = &deliveredAt
	}

	if err := s.store.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.logger.Info("order_status_changed", fmt.Sprintf("Order %s: %s -> %s", o.ID, old, target), "", map[string]interface{}{
		"order_id":   o.ID,
		"old_status": string(old),
		"new_status": string(target),
	})

	s.notifier.OrderStatusChanged(ctx, o, old)
	return o, nil
}

// UpdateEstimatedMinutes revises the delivery estimate of a non-terminal
// order. The estimated delivery timestamp is always now plus the new
// estimate, not an absolute deadline set once.
func (s *Service) UpdateEstimatedMinutes(ctx context.Context, orderID string, minutes int) (*models.Order, error) {
	if minutes < MinEstimatedMinutes || minutes > MaxEstimatedMinutes {
		return nil, ErrEstimateOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, o.ID, o.Status)
	}

	o.EstimatedMinutes = minutes
	o.EstimatedDelivery = s.now().Add(time.Duration(minutes) * time.Minute)

	if err := s.store.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.notifier.EstimateUpdated(ctx, o)
	return o, nil
}

// Get returns a single order.
func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.store.Get(ctx, orderID)
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.store.List(ctx)
}

// ListByStatus returns orders in any of the given statuses, newest first.
func (s *Service) ListByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	return s.store.ListByStatus(ctx, statuses...)
}

// ListForActor returns the actor's order history: their own orders for an
// identified user, every unowned order for a guest.
func (s *Service) ListForActor(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if actor.IsGuest() {
		return s.store.ListByUser(ctx, "")
	}
	return s.store.ListByUser(ctx, actor.ID)
}

// ActiveForKitchen returns the orders the kitchen cares about: confirmed
// and preparing.
func (s *Service) ActiveForKitchen(ctx context.Context) ([]models.Order, error) {
	return s.store.ListByStatus(ctx, models.StatusConfirmed, models.StatusPreparing)
}

func (s *Service) transitionAllowed(current, target models.OrderStatus) bool {
	if target == models.StatusCancelled {
		return !current.Terminal()
	}
	next, ok := models.NextStatus(current)
	return ok && next == target
}

func (s *Service) generateID(ctx context.Context, now time.Time) (string, error) {
	day := now.UTC()
	prefix := fmt.Sprintf("ORD_%s_%%", day.Format("20060102"))
	seq, err := s.store.NextSequence(ctx, prefix)
	if err != nil {
		return "", err
	}
	return models.GenerateOrderID(day, seq), nil
}
