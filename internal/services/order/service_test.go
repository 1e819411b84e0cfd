package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

type fakeStore struct {
	orders map[string]*models.Order
	seq    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]*models.Order), seq: 0}
}

func (f *fakeStore) Insert(_ context.Context, o *models.Order) error {
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) Update(_ context.Context, o *models.Order) error {
	if _, ok := f.orders[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStatus(_ context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) NextSequence(_ context.Context, _ string) (int, error) {
	f.seq++
	return f.seq, nil
}

type fakeNotifier struct {
	placed  []string
	changed []string
	revised []string
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, o *models.Order) {
	f.placed = append(f.placed, o.ID)
}

func (f *fakeNotifier) OrderStatusChanged(_ context.Context, o *models.Order, _ models.OrderStatus) {
	f.changed = append(f.changed, o.ID)
}

func (f *fakeNotifier) EstimateUpdated(_ context.Context, o *models.Order) {
	f.revised = append(f.revised, o.ID)
}

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore, notifier *fakeNotifier) *Service {
	return NewService(store, notifier, logger.New("order-test")).
		WithClock(func() time.Time { return testClock })
}

func validInput() CheckoutInput {
	return CheckoutInput{
		Lines: []models.OrderLine{
			{ItemID: "1", Name: "Paneer Butter Masala", UnitPrice: 280, Quantity: 2, PrepMinutes: 20},
			{ItemID: "10", Name: "Butter Naan", UnitPrice: 60, Quantity: 4, PrepMinutes: 12},
		},
		Customer:      models.CustomerInfo{Name: "Asha Rao", Phone: "+91-9876543210"},
		Address:       models.Address{Street: "12 MG Road", City: "Bengaluru"},
		PaymentMethod: models.PaymentUPI,
	}
}

func TestCreate(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	o, err := svc.Create(context.Background(), models.Actor{ID: "u1"}, validInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if o.ID != "ORD_20250601_001" {
		t.Errorf("unexpected order id %q", o.ID)
	}
	if o.Status != models.StatusConfirmed {
		t.Errorf("new order status = %q, want confirmed", o.Status)
	}
	if o.TotalAmount != 800 {
		t.Errorf("TotalAmount = %d, want 800", o.TotalAmount)
	}
	if o.EstimatedMinutes != DefaultEstimatedMinutes {
		t.Errorf("EstimatedMinutes = %d, want %d", o.EstimatedMinutes, DefaultEstimatedMinutes)
	}
	if want := testClock.Add(30 * time.Minute); !o.EstimatedDelivery.Equal(want) {
		t.Errorf("EstimatedDelivery = %v, want %v", o.EstimatedDelivery, want)
	}
	if o.DeliveredAt != nil {
		t.Error("DeliveredAt should be unset on creation")
	}
	if len(notifier.placed) != 1 {
		t.Errorf("placed notifications = %d, want 1", len(notifier.placed))
	}
}

func TestCreateAppliesDiscount(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{})

	in := validInput()
	in.CouponCode = "SAVE50"
	in.Discount = 50

	o, err := svc.Create(context.Background(), models.Guest(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if o.TotalAmount != 750 {
		t.Errorf("TotalAmount = %d, want 750", o.TotalAmount)
	}
	if o.Subtotal() != 800 {
		t.Errorf("Subtotal = %d, want 800", o.Subtotal())
	}
}

func TestCreateEmptyCart(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{})

	in := validInput()
	in.Lines = nil

	if _, err := svc.Create(context.Background(), models.Guest(), in); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Create with empty cart = %v, want ErrEmptyCart", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"missing customer name", func(in *CheckoutInput) { in.Customer.Name = "" }},
		{"missing phone", func(in *CheckoutInput) { in.Customer.Phone = "" }},
		{"missing street", func(in *CheckoutInput) { in.Address.Street = "" }},
		{"missing city", func(in *CheckoutInput) { in.Address.City = "" }},
		{"unknown payment method", func(in *CheckoutInput) { in.PaymentMethod = "cheque" }},
		{"zero quantity line", func(in *CheckoutInput) { in.Lines[0].Quantity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeStore(), &fakeNotifier{})
			in := validInput()
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), models.Guest(), in); err == nil {
				t.Error("Create accepted invalid input")
			}
		})
	}
}

func TestOrderIDSequencePerDay(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	first, _ := svc.Create(context.Background(), models.Guest(), validInput())
	second, _ := svc.Create(context.Background(), models.Guest(), validInput())

	if first.ID != "ORD_20250601_001" || second.ID != "ORD_20250601_002" {
		t.Errorf("sequence ids = %q, %q", first.ID, second.ID)
	}
}

func TestAdvanceStatusFullFlow(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())

	for _, target := range []models.OrderStatus{models.StatusPreparing, models.StatusOutForDelivery, models.StatusDelivered} {
		updated, err := svc.AdvanceStatus(context.Background(), o.ID, target)
		if err != nil {
			t.Fatalf("AdvanceStatus to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Errorf("status = %q, want %q", updated.Status, target)
		}
	}

	final, _ := svc.Get(context.Background(), o.ID)
	if final.DeliveredAt == nil || !final.DeliveredAt.Equal(testClock) {
		t.Errorf("DeliveredAt = %v, want %v", final.DeliveredAt, testClock)
	}
	if len(notifier.changed) != 3 {
		t.Errorf("status change notifications = %d, want 3", len(notifier.changed))
	}
}

func TestAdvanceStatusRejectsSkips(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())

	for _, target := range []models.OrderStatus{models.StatusOutForDelivery, models.StatusDelivered, models.StatusConfirmed, models.StatusPending} {
		if _, err := svc.AdvanceStatus(context.Background(), o.ID, target); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("AdvanceStatus(confirmed -> %s) = %v, want ErrInvalidTransition", target, err)
		}
	}
}

func TestCancelFromAnyActiveState(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())
	svc.AdvanceStatus(context.Background(), o.ID, models.StatusPreparing)
	svc.AdvanceStatus(context.Background(), o.ID, models.StatusOutForDelivery)

	updated, err := svc.AdvanceStatus(context.Background(), o.ID, models.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel from out-for-delivery failed: %v", err)
	}
	if updated.Status != models.StatusCancelled {
		t.Errorf("status = %q, want cancelled", updated.Status)
	}
	if updated.DeliveredAt != nil {
		t.Error("cancelled order must not carry DeliveredAt")
	}
}

func TestTerminalOrdersAreDead(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())
	svc.AdvanceStatus(context.Background(), o.ID, models.StatusCancelled)

	if _, err := svc.AdvanceStatus(context.Background(), o.ID, models.StatusPreparing); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("advance on cancelled order = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.AdvanceStatus(context.Background(), o.ID, models.StatusCancelled); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel on cancelled order = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.UpdateEstimatedMinutes(context.Background(), o.ID, 45); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("estimate update on cancelled order = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateEstimatedMinutes(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier)

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())

	updated, err := svc.UpdateEstimatedMinutes(context.Background(), o.ID, 45)
	if err != nil {
		t.Fatalf("UpdateEstimatedMinutes failed: %v", err)
	}
	if updated.EstimatedMinutes != 45 {
		t.Errorf("EstimatedMinutes = %d, want 45", updated.EstimatedMinutes)
	}
	if want := testClock.Add(45 * time.Minute); !updated.EstimatedDelivery.Equal(want) {
		t.Errorf("EstimatedDelivery = %v, want %v", updated.EstimatedDelivery, want)
	}
	if len(notifier.revised) != 1 {
		t.Errorf("estimate notifications = %d, want 1", len(notifier.revised))
	}
}

func TestUpdateEstimatedMinutesBounds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	o, _ := svc.Create(context.Background(), models.Guest(), validInput())

	for _, minutes := range []int{5, 9, 121, 0, -10} {
		if _, err := svc.UpdateEstimatedMinutes(context.Background(), o.ID, minutes); !errors.Is(err, ErrEstimateOutOfRange) {
			t.Errorf("UpdateEstimatedMinutes(%d) = %v, want ErrEstimateOutOfRange", minutes, err)
		}
	}

	final, _ := svc.Get(context.Background(), o.ID)
	if final.EstimatedMinutes != DefaultEstimatedMinutes {
		t.Errorf("rejected updates must not change the estimate, got %d", final.EstimatedMinutes)
	}
}

func TestListForActor(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	svc.Create(context.Background(), models.Actor{ID: "u1"}, validInput())
	svc.Create(context.Background(), models.Guest(), validInput())

	owned, err := svc.ListForActor(context.Background(), models.Actor{ID: "u1"})
	if err != nil {
		t.Fatalf("ListForActor failed: %v", err)
	}
	if len(owned) != 1 || owned[0].UserID != "u1" {
		t.Errorf("owned orders = %v", owned)
	}

	guest, _ := svc.ListForActor(context.Background(), models.Guest())
	if len(guest) != 1 || guest[0].UserID != "" {
		t.Errorf("guest orders = %v", guest)
	}
}

func TestActiveForKitchen(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeNotifier{})

	confirmed, _ := svc.Create(context.Background(), models.Guest(), validInput())
	preparing, _ := svc.Create(context.Background(), models.Guest(), validInput())
	svc.AdvanceStatus(context.Background(), preparing.ID, models.StatusPreparing)
	done, _ := svc.Create(context.Background(), models.Guest(), validInput())
	svc.AdvanceStatus(context.Background(), done.ID, models.StatusCancelled)

	active, err := svc.ActiveForKitchen(context.Background())
	if err != nil {
		t.Fatalf("ActiveForKitchen failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active orders = %d, want 2", len(active))
	}
	for _, o := range active {
		if o.ID == done.ID {
			t.Error("cancelled order leaked into kitchen view")
		}
	}
	_ = confirmed
}

func TestGetUnknownOrder(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeNotifier{})
	if _, err := svc.Get(context.Background(), "ORD_20250601_999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown = %v, want ErrNotFound", err)
	}
}
