package kitchen

import (
	"context"
	"sort"
	"time"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// Priority classifies how urgently a queue item needs attention, based on
// the age of its oldest contributing order.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Age thresholds for queue priorities.
const (
	mediumAfter = 15 * time.Minute
	highAfter   = 60 * time.Minute
)

// Contribution is one order's share of a queue item.
type Contribution struct {
	OrderID      string             `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	Quantity     int                `json:"quantity"`
	Status       models.OrderStatus `json:"status"`
	PlacedAt     time.Time          `json:"placed_at"`
}

// QueueItem is the kitchen's view of one dish: total quantity demanded
// across all active orders, with per-order contributions oldest first.
type QueueItem struct {
	ItemID        string         `json:"item_id"`
	Name          string         `json:"name"`
	TotalQuantity int            `json:"total_quantity"`
	Priority      Priority       `json:"priority"`
	OldestOrderAt time.Time      `json:"oldest_order_at"`
	Orders        []Contribution `json:"orders"`
}

// OrderSource supplies the orders the kitchen works from.
type OrderSource interface {
	ActiveForKitchen(ctx context.Context) ([]models.Order, error)
}

// Service produces the aggregated preparation queue.
type Service struct {
	orders OrderSource
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates the kitchen queue service.
func NewService(orders OrderSource, log *logger.Logger) *Service {
	return &Service{orders: orders, logger: log, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Queue returns the current preparation queue.
func (s *Service) Queue(ctx context.Context) ([]QueueItem, error) {
	orders, err := s.orders.ActiveForKitchen(ctx)
	if err != nil {
		return nil, err
	}

	items, skipped := Aggregate(orders, s.now())
	if skipped > 0 {
		s.logger.Error("kitchen_orders_skipped", "Skipped malformed orders during aggregation", "", nil,
			map[string]interface{}{"skipped": skipped})
	}
	return items, nil
}

// Aggregate folds the given orders into per-dish queue items. Orders with
// an empty id or no usable lines are skipped and counted rather than
// failing the whole queue. The result is deterministic: items sorted by
// oldest contribution then item id, contributions FIFO by order age.
func Aggregate(orders []models.Order, now time.Time) ([]QueueItem, int) {
	buckets := make(map[string]*QueueItem)
	skipped := 0

	for _, o := range orders {
		if o.ID == "" {
			skipped++
			continue
		}
		usable := 0
		for _, line := range o.Lines {
			if line.ItemID == "" || line.Quantity <= 0 {
				continue
			}
			usable++

			b, ok := buckets[line.ItemID]
			if !ok {
				b = &QueueItem{ItemID: line.ItemID, Name: line.Name, OldestOrderAt: o.CreatedAt}
				buckets[line.ItemID] = b
			}
			b.TotalQuantity += line.Quantity
			if o.CreatedAt.Before(b.OldestOrderAt) {
				b.OldestOrderAt = o.CreatedAt
			}
			b.Orders = append(b.Orders, Contribution{
				OrderID:      o.ID,
				CustomerName: o.Customer.Name,
				Quantity:     line.Quantity,
				Status:       o.Status,
				PlacedAt:     o.CreatedAt,
			})
		}
		if usable == 0 {
			skipped++
		}
	}

	items := make([]QueueItem, 0, len(buckets))
	for _, b := range buckets {
		sort.Slice(b.Orders, func(i, j int) bool {
			if !b.Orders[i].PlacedAt.Equal(b.Orders[j].PlacedAt) {
				return b.Orders[i].PlacedAt.Before(b.Orders[j].PlacedAt)
			}
			return b.Orders[i].OrderID < b.Orders[j].OrderID
		})
		b.Priority = priorityFor(now.Sub(b.OldestOrderAt))
		items = append(items, *b)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].OldestOrderAt.Equal(items[j].OldestOrderAt) {
			return items[i].OldestOrderAt.Before(items[j].OldestOrderAt)
		}
		return items[i].ItemID < items[j].ItemID
	})
	return items, skipped
}

func priorityFor(elapsed time.Duration) Priority {
	switch {
	case elapsed >= highAfter:
		return PriorityHigh
	case elapsed > mediumAfter:
		return PriorityMedium
	default:
		return PriorityNormal
	}
}
