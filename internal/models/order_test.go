package models

import (
	"testing"
	"time"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current OrderStatus
		want    OrderStatus
		ok      bool
	}{
		{"pending advances to confirmed", StatusPending, StatusConfirmed, true},
		{"confirmed advances to preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing advances to out-for-delivery", StatusPreparing, StatusOutForDelivery, true},
		{"out-for-delivery advances to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"delivered is terminal", StatusDelivered, "", false},
		{"cancelled is terminal", StatusCancelled, "", false},
		{"unknown status has no successor", OrderStatus("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextStatus(tt.current)
			if got != tt.want || ok != tt.ok {
				t.Errorf("NextStatus(%q) = (%q, %v), want (%q, %v)", tt.current, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery} {
		if s.Terminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%q should be terminal", s)
		}
	}
}

func TestGenerateOrderID(t *testing.T) {
	date := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	if got, want := GenerateOrderID(date, 7), "ORD_20250314_007"; got != want {
		t.Errorf("GenerateOrderID = %q, want %q", got, want)
	}
}

func TestOrderSubtotal(t *testing.T) {
	order := Order{Lines: []OrderLine{
		{ItemID: "1", UnitPrice: 280, Quantity: 2},
		{ItemID: "10", UnitPrice: 60, Quantity: 3},
	}}
	if got, want := order.Subtotal(), int64(740); got != want {
		t.Errorf("Subtotal = %d, want %d", got, want)
	}
}

func TestNotificationVisibleTo(t *testing.T) {
	admin := Actor{ID: "admin", Admin: true}
	customer := Actor{ID: "u1"}
	other := Actor{ID: "u2"}
	guest := Guest()

	tests := []struct {
		name string
		n    Notification
		a    Actor
		want bool
	}{
		{"admin sees admin broadcast", Notification{ForAdmin: true}, admin, true},
		{"customer does not see admin broadcast", Notification{ForAdmin: true}, customer, false},
		{"guest does not see admin broadcast", Notification{ForAdmin: true}, guest, false},
		{"targeted entry visible to target", Notification{TargetUserID: "u1"}, customer, true},
		{"targeted entry hidden from others", Notification{TargetUserID: "u1"}, other, false},
		{"untargeted entry visible to guest", Notification{}, guest, true},
		{"untargeted entry visible to customer", Notification{}, customer, true},
		{"admin does not see untargeted customer entry", Notification{}, admin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.VisibleTo(tt.a); got != tt.want {
				t.Errorf("VisibleTo = %v, want %v", got, tt.want)
			}
		})
	}
}
