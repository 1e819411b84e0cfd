package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-system/internal/models"
)

var queueNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func orderAt(id string, age time.Duration, status models.OrderStatus, lines ...models.OrderLine) models.Order {
	return orderFor(id, "Asha Rao", age, status, lines...)
}

func orderFor(id, customer string, age time.Duration, status models.OrderStatus, lines ...models.OrderLine) models.Order {
	return models.Order{
		ID:        id,
		Customer:  models.CustomerInfo{Name: customer},
		Status:    status,
		CreatedAt: queueNow.Add(-age),
		Lines:     lines,
	}
}

func TestAggregateCombinesQuantities(t *testing.T) {
	orders := []models.Order{
		orderAt("ORD_20250601_001", 20*time.Minute, models.StatusPreparing,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 2},
			models.OrderLine{ItemID: "10", Name: "Butter Naan", Quantity: 4}),
		orderAt("ORD_20250601_002", 5*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 3}),
	}

	items, skipped := Aggregate(orders, queueNow)
	require.Equal(t, 0, skipped)
	require.Len(t, items, 2)

	paneer := items[0]
	assert.Equal(t, "1", paneer.ItemID)
	assert.Equal(t, 5, paneer.TotalQuantity)
	assert.Equal(t, PriorityMedium, paneer.Priority)

	// Contributions come back oldest order first.
	require.Len(t, paneer.Orders, 2)
	assert.Equal(t, "ORD_20250601_001", paneer.Orders[0].OrderID)
	assert.Equal(t, 2, paneer.Orders[0].Quantity)
	assert.Equal(t, "ORD_20250601_002", paneer.Orders[1].OrderID)
	assert.Equal(t, 3, paneer.Orders[1].Quantity)

	naan := items[1]
	assert.Equal(t, "10", naan.ItemID)
	assert.Equal(t, 4, naan.TotalQuantity)
}

func TestAggregatePriorities(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want Priority
	}{
		{"fresh order is normal", 10 * time.Minute, PriorityNormal},
		{"twenty minutes is medium", 20 * time.Minute, PriorityMedium},
		{"an hour is high", 60 * time.Minute, PriorityHigh},
		{"two hours is high", 2 * time.Hour, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := []models.Order{
				orderAt("ORD_20250601_001", tt.age, models.StatusConfirmed,
					models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 1}),
			}
			items, _ := Aggregate(orders, queueNow)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Priority)
		})
	}
}

func TestAggregatePriorityUsesOldestContribution(t *testing.T) {
	orders := []models.Order{
		orderAt("ORD_20250601_001", 90*time.Minute, models.StatusPreparing,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 1}),
		orderAt("ORD_20250601_002", 2*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 1}),
	}

	items, _ := Aggregate(orders, queueNow)
	require.Len(t, items, 1)
	assert.Equal(t, PriorityHigh, items[0].Priority)
	assert.Equal(t, queueNow.Add(-90*time.Minute), items[0].OldestOrderAt)
}

func TestAggregateSkipsMalformedOrders(t *testing.T) {
	orders := []models.Order{
		orderAt("ORD_20250601_001", 5*time.Minute, models.StatusConfirmed),
		orderAt("ORD_20250601_002", 5*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "", Quantity: 3},
			models.OrderLine{ItemID: "2", Name: "Dal Makhani", Quantity: 0}),
		orderAt("", 5*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "3", Name: "Palak Paneer", Quantity: 1}),
		orderAt("ORD_20250601_003", 5*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 2}),
	}

	items, skipped := Aggregate(orders, queueNow)
	assert.Equal(t, 3, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ItemID)
}

func TestAggregateCarriesCustomerNames(t *testing.T) {
	orders := []models.Order{
		orderFor("ORD_20250601_001", "Asha Rao", 20*time.Minute, models.StatusPreparing,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 2}),
		orderFor("ORD_20250601_002", "Vikram Singh", 5*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 3}),
	}

	items, _ := Aggregate(orders, queueNow)
	require.Len(t, items, 1)
	require.Len(t, items[0].Orders, 2)
	assert.Equal(t, "Asha Rao", items[0].Orders[0].CustomerName)
	assert.Equal(t, "Vikram Singh", items[0].Orders[1].CustomerName)
}

func TestAggregateIsDeterministic(t *testing.T) {
	orders := []models.Order{
		orderAt("ORD_20250601_003", 8*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "24", Name: "Masala Chai", Quantity: 2}),
		orderAt("ORD_20250601_001", 25*time.Minute, models.StatusPreparing,
			models.OrderLine{ItemID: "1", Name: "Paneer Butter Masala", Quantity: 1},
			models.OrderLine{ItemID: "24", Name: "Masala Chai", Quantity: 1}),
		orderAt("ORD_20250601_002", 12*time.Minute, models.StatusConfirmed,
			models.OrderLine{ItemID: "6", Name: "Chicken Biryani", Quantity: 1}),
	}

	first, _ := Aggregate(orders, queueNow)
	second, _ := Aggregate(orders, queueNow)
	assert.Equal(t, first, second)

	// Oldest work surfaces first.
	require.Len(t, first, 3)
	assert.Equal(t, "1", first[0].ItemID)
	assert.Equal(t, "6", first[1].ItemID)
	assert.Equal(t, "24", first[2].ItemID)
}

func TestAggregateEmpty(t *testing.T) {
	items, skipped := Aggregate(nil, queueNow)
	assert.Empty(t, items)
	assert.Equal(t, 0, skipped)
}
