package notification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// ErrNotFound is returned when a notification does not exist or is not
// visible to the acting user.
var ErrNotFound = errors.New("notification not found")

// Store is the durable notification feed.
type Store interface {
	Insert(ctx context.Context, n *models.Notification) error
	List(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkManyRead(ctx context.Context, ids []string) error
	Delete(ctx context.Context, ids []string) error
}

// EventPublisher pushes lifecycle events onto the order events exchange.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event interface{}) error
}

// Dispatcher turns order lifecycle transitions into feed entries and
// broker events. Feed writes are durable; broker publishes are
// best-effort and never fail the transition that triggered them.
type Dispatcher struct {
	store     Store
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

// NewDispatcher creates the notification dispatcher. The publisher may
// be nil when no broker is configured.
func NewDispatcher(store Store, publisher EventPublisher, log *logger.Logger) *Dispatcher {
	return &Dispatcher{store: store, publisher: publisher, logger: log, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// OrderPlaced records the customer confirmation and the admin alert for
// a freshly placed order.
func (d *Dispatcher) OrderPlaced(ctx context.Context, o *models.Order) {
	d.emit(ctx, &models.Notification{
		Type:         models.NotifyOrderPlaced,
		Title:        "Order Confirmed!",
		Message:      fmt.Sprintf("Your order #%s has been confirmed and will be delivered in %d minutes.", o.ID, o.EstimatedMinutes),
		OrderID:      o.ID,
		TargetUserID: o.UserID,
	})
	d.emit(ctx, &models.Notification{
		Type:     models.NotifyNewOrder,
		Title:    "New Order Received",
		Message:  fmt.Sprintf("New order #%s from %s for ₹%d", o.ID, o.Customer.Name, o.TotalAmount),
		OrderID:  o.ID,
		ForAdmin: true,
	})
	d.publish(ctx, models.OrderEvent{
		OrderID:      o.ID,
		Type:         models.NotifyOrderPlaced,
		NewStatus:    o.Status,
		CustomerName: o.Customer.Name,
		TotalAmount:  o.TotalAmount,
		Timestamp:    d.now(),
	})
}

// OrderStatusChanged records a status transition for the customer.
func (d *Dispatcher) OrderStatusChanged(ctx context.Context, o *models.Order, old models.OrderStatus) {
	kind := models.NotifyOrderUpdated
	if o.Status == models.StatusDelivered {
		kind = models.NotifyOrderDelivered
	}
	d.emit(ctx, &models.Notification{
		Type:         kind,
		Title:        "Order Status Updated",
		Message:      fmt.Sprintf("Your order #%s is now %s", o.ID, o.Status.Display()),
		OrderID:      o.ID,
		TargetUserID: o.UserID,
	})
	d.publish(ctx, models.OrderEvent{
		OrderID:      o.ID,
		Type:         kind,
		OldStatus:    old,
		NewStatus:    o.Status,
		CustomerName: o.Customer.Name,
		Timestamp:    d.now(),
	})
}

// EstimateUpdated records a revised delivery estimate for the customer.
func (d *Dispatcher) EstimateUpdated(ctx context.Context, o *models.Order) {
	d.emit(ctx, &models.Notification{
		Type:         models.NotifyOrderUpdated,
		Title:        "Delivery Time Updated",
		Message:      fmt.Sprintf("Your order #%s will be delivered in %d minutes", o.ID, o.EstimatedMinutes),
		OrderID:      o.ID,
		TargetUserID: o.UserID,
	})
	estimated := o.EstimatedDelivery
	d.publish(ctx, models.OrderEvent{
		OrderID:           o.ID,
		Type:              models.NotifyOrderUpdated,
		NewStatus:         o.Status,
		CustomerName:      o.Customer.Name,
		EstimatedDelivery: &estimated,
		Timestamp:         d.now(),
	})
}

// Feed returns the actor's visible notifications, newest first.
func (d *Dispatcher) Feed(ctx context.Context, actor models.Actor) ([]models.Notification, error) {
	all, err := d.store.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if n.VisibleTo(actor) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

// UnreadCount returns how many visible notifications the actor has not
// read yet.
func (d *Dispatcher) UnreadCount(ctx context.Context, actor models.Actor) (int, error) {
	visible, err := d.Feed(ctx, actor)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range visible {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead marks a single notification as read. Entries outside the
// actor's view read as absent.
func (d *Dispatcher) MarkRead(ctx context.Context, actor models.Actor, id string) error {
	visible, err := d.Feed(ctx, actor)
	if err != nil {
		return err
	}
	for _, n := range visible {
		if n.ID == id {
			return d.store.MarkRead(ctx, id)
		}
	}
	return ErrNotFound
}

// MarkAllRead marks every notification visible to the actor as read.
// Entries outside the actor's view are untouched.
func (d *Dispatcher) MarkAllRead(ctx context.Context, actor models.Actor) error {
	visible, err := d.Feed(ctx, actor)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(visible))
	for _, n := range visible {
		if !n.Read {
			ids = append(ids, n.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return d.store.MarkManyRead(ctx, ids)
}

// Clear drops every notification visible to the actor. Entries outside
// the actor's view are untouched.
func (d *Dispatcher) Clear(ctx context.Context, actor models.Actor) error {
	visible, err := d.Feed(ctx, actor)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(visible))
	for _, n := range visible {
		ids = append(ids, n.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	return d.store.Delete(ctx, ids)
}

func (d *Dispatcher) emit(ctx context.Context, n *models.Notification) {
	n.ID = generateID()
	n.CreatedAt = d.now()
	if err := d.store.Insert(ctx, n); err != nil {
		d.logger.Error("notification_failed", "Failed to store notification", "", err, map[string]interface{}{
			"type":     string(n.Type),
			"order_id": n.OrderID,
		})
	}
}

func (d *Dispatcher) publish(ctx context.Context, event models.OrderEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishOrderEvent(ctx, event); err != nil {
		d.logger.Error("event_publish_failed", "Failed to publish order event", "", err, map[string]interface{}{
			"type":     string(event.Type),
			"order_id": event.OrderID,
		})
	}
}

func generateID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "ntf_unknown"
	}
	return "ntf_" + hex.EncodeToString(buf)
}
