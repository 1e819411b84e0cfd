package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type fakeStore struct {
	entries []models.Notification
}

func (f *fakeStore) Insert(_ context.Context, n *models.Notification) error {
	f.entries = append([]models.Notification{*n}, f.entries...)
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Notification, error) {
	out := make([]models.Notification, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Read = true
		}
	}
	return nil
}

func (f *fakeStore) MarkManyRead(_ context.Context, ids []string) error {
	for _, id := range ids {
		f.MarkRead(context.Background(), id)
	}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, ids []string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []models.Notification
	for _, n := range f.entries {
		if !drop[n.ID] {
			kept = append(kept, n)
		}
	}
	f.entries = kept
	return nil
}

type fakePublisher struct {
	events []models.OrderEvent
}

func (f *fakePublisher) PublishOrderEvent(_ context.Context, event interface{}) error {
	f.events = append(f.events, event.(models.OrderEvent))
	return nil
}

var dispatchClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDispatcher(store *fakeStore, pub *fakePublisher) *Dispatcher {
	var p EventPublisher
	if pub != nil {
		p = pub
	}
	return NewDispatcher(store, p, logger.New("notification-test")).
		WithClock(func() time.Time { return dispatchClock })
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:               "ORD_20250601_001",
		UserID:           "u1",
		Customer:         models.CustomerInfo{Name: "Asha Rao", Phone: "+91-9876543210"},
		Status:           models.StatusConfirmed,
		TotalAmount:      750,
		EstimatedMinutes: 30,
	}
}

func TestOrderPlacedEmitsCustomerAndAdminEntries(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	d := newTestDispatcher(store, pub)

	d.OrderPlaced(context.Background(), sampleOrder())

	if len(store.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(store.entries))
	}

	var customer, admin *models.Notification
	for i := range store.entries {
		if store.entries[i].ForAdmin {
			admin = &store.entries[i]
		} else {
			customer = &store.entries[i]
		}
	}
	if customer == nil || admin == nil {
		t.Fatal("expected one customer and one admin entry")
	}

	if customer.Type != models.NotifyOrderPlaced || customer.TargetUserID != "u1" {
		t.Errorf("customer entry = %+v", customer)
	}
	if want := "Your order #ORD_20250601_001 has been confirmed and will be delivered in 30 minutes."; customer.Message != want {
		t.Errorf("customer message = %q, want %q", customer.Message, want)
	}
	if admin.Type != models.NotifyNewOrder || admin.TargetUserID != "" {
		t.Errorf("admin entry = %+v", admin)
	}
	if want := "New order #ORD_20250601_001 from Asha Rao for ₹750"; admin.Message != want {
		t.Errorf("admin message = %q, want %q", admin.Message, want)
	}

	if len(pub.events) != 1 || pub.events[0].Type != models.NotifyOrderPlaced {
		t.Errorf("published events = %+v", pub.events)
	}
}

func TestStatusChangedMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   models.OrderStatus
		wantType models.NotificationType
		wantMsg  string
	}{
		{"preparing", models.StatusPreparing, models.NotifyOrderUpdated, "Your order #ORD_20250601_001 is now preparing"},
		{"out for delivery", models.StatusOutForDelivery, models.NotifyOrderUpdated, "Your order #ORD_20250601_001 is now out for delivery"},
		{"delivered", models.StatusDelivered, models.NotifyOrderDelivered, "Your order #ORD_20250601_001 is now delivered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			d := newTestDispatcher(store, nil)

			o := sampleOrder()
			o.Status = tt.status
			d.OrderStatusChanged(context.Background(), o, models.StatusConfirmed)

			if len(store.entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(store.entries))
			}
			if store.entries[0].Type != tt.wantType {
				t.Errorf("type = %q, want %q", store.entries[0].Type, tt.wantType)
			}
			if store.entries[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", store.entries[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestEstimateUpdatedMessage(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(store, nil)

	o := sampleOrder()
	o.EstimatedMinutes = 45
	d.EstimateUpdated(context.Background(), o)

	if len(store.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(store.entries))
	}
	if want := "Your order #ORD_20250601_001 will be delivered in 45 minutes"; store.entries[0].Message != want {
		t.Errorf("message = %q, want %q", store.entries[0].Message, want)
	}
}

func TestFeedFiltersByActor(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(store, nil)

	d.OrderPlaced(context.Background(), sampleOrder())

	customerFeed, err := d.Feed(context.Background(), models.Actor{ID: "u1"})
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(customerFeed) != 1 || customerFeed[0].ForAdmin {
		t.Errorf("customer feed = %+v", customerFeed)
	}

	adminFeed, _ := d.Feed(context.Background(), models.Actor{ID: "admin", Admin: true})
	if len(adminFeed) != 1 || !adminFeed[0].ForAdmin {
		t.Errorf("admin feed = %+v", adminFeed)
	}

	otherFeed, _ := d.Feed(context.Background(), models.Actor{ID: "u2"})
	if len(otherFeed) != 0 {
		t.Errorf("other user feed = %+v", otherFeed)
	}
}

func TestMarkAllReadOnlyTouchesVisible(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(store, nil)

	d.OrderPlaced(context.Background(), sampleOrder())

	customer := models.Actor{ID: "u1"}
	if err := d.MarkAllRead(context.Background(), customer); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	count, _ := d.UnreadCount(context.Background(), customer)
	if count != 0 {
		t.Errorf("customer unread = %d, want 0", count)
	}

	adminCount, _ := d.UnreadCount(context.Background(), models.Actor{ID: "admin", Admin: true})
	if adminCount != 1 {
		t.Errorf("admin unread = %d, want 1", adminCount)
	}
}

func TestClearOnlyDropsVisible(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(store, nil)

	d.OrderPlaced(context.Background(), sampleOrder())

	if err := d.Clear(context.Background(), models.Actor{ID: "u1"}); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	customerFeed, _ := d.Feed(context.Background(), models.Actor{ID: "u1"})
	if len(customerFeed) != 0 {
		t.Errorf("customer feed = %+v, want empty", customerFeed)
	}
	adminFeed, _ := d.Feed(context.Background(), models.Actor{ID: "admin", Admin: true})
	if len(adminFeed) != 1 {
		t.Errorf("admin feed = %+v, want 1 entry", adminFeed)
	}
}

func TestMarkReadScopedToVisibleSet(t *testing.T) {
	store := &fakeStore{}
	d := newTestDispatcher(store, nil)

	d.OrderPlaced(context.Background(), sampleOrder())

	var customerID, adminID string
	for _, n := range store.entries {
		if n.ForAdmin {
			adminID = n.ID
		} else {
			customerID = n.ID
		}
	}

	customer := models.Actor{ID: "u1"}
	if err := d.MarkRead(context.Background(), customer, adminID); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkRead on admin entry = %v, want ErrNotFound", err)
	}
	adminCount, _ := d.UnreadCount(context.Background(), models.Actor{ID: "admin", Admin: true})
	if adminCount != 1 {
		t.Errorf("admin unread = %d, want 1", adminCount)
	}

	if err := d.MarkRead(context.Background(), customer, customerID); err != nil {
		t.Fatalf("MarkRead on own entry failed: %v", err)
	}
	count, _ := d.UnreadCount(context.Background(), customer)
	if count != 0 {
		t.Errorf("customer unread = %d, want 0", count)
	}
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	placed := formatEvent(&models.OrderEvent{
		OrderID: "ORD_20250601_001", Type: models.NotifyNewOrder,
		CustomerName: "Asha Rao", TotalAmount: 750, Timestamp: ts,
	})
	if want := "🧾 [2025-06-01 12:00:00] Order ORD_20250601_001 placed by Asha Rao for ₹750"; placed != want {
		t.Errorf("placed = %q, want %q", placed, want)
	}

	moved := formatEvent(&models.OrderEvent{
		OrderID: "ORD_20250601_001", Type: models.NotifyOrderUpdated,
		OldStatus: models.StatusPreparing, NewStatus: models.StatusOutForDelivery, Timestamp: ts,
	})
	if want := "📦 [2025-06-01 12:00:00] Order ORD_20250601_001 moved from preparing to out for delivery"; moved != want {
		t.Errorf("moved = %q, want %q", moved, want)
	}
}
