package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront-system/internal/logger"
	"storefront-system/internal/messaging"
	"storefront-system/internal/models"
)

// Subscriber consumes order events from the broker and renders them for
// the console. It is the delivery channel for operators who watch the
// event stream instead of polling the admin feed.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates the order event subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start consumes events until the context is cancelled or a shutdown
// signal arrives.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleEvent); err != nil {
			s.logger.Error("consumer_failed", "Order event consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.consumer.Close()
	case <-s.done:
		return nil
	}
}

func (s *Subscriber) handleEvent(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse order event", requestID, err, nil)
		return fmt.Errorf("failed to parse order event: %w", err)
	}

	s.logger.Debug("event_received", "Received order event", requestID, map[string]interface{}{
		"order_id":   event.OrderID,
		"type":       string(event.Type),
		"new_status": string(event.NewStatus),
	})

	fmt.Println(formatEvent(&event))

	s.logger.Info("event_displayed", "Order event displayed", requestID, map[string]interface{}{
		"order_id":   event.OrderID,
		"type":       string(event.Type),
		"old_status": string(event.OldStatus),
		"new_status": string(event.NewStatus),
		"timestamp":  event.Timestamp.Format("2006-01-02 15:04:05"),
	})
	return nil
}

// formatEvent renders one event as a console line.
func formatEvent(event *models.OrderEvent) string {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")

	switch event.Type {
	case models.NotifyNewOrder, models.NotifyOrderPlaced:
		return fmt.Sprintf("🧾 [%s] Order %s placed by %s for ₹%d",
			timestamp, event.OrderID, event.CustomerName, event.TotalAmount)
	case models.NotifyOrderDelivered:
		return fmt.Sprintf("✅ [%s] Order %s delivered",
			timestamp, event.OrderID)
	case models.NotifyOrderUpdated:
		if event.EstimatedDelivery != nil {
			return fmt.Sprintf("⏱️ [%s] Order %s now estimated for %s",
				timestamp, event.OrderID, event.EstimatedDelivery.Format("15:04:05"))
		}
		return fmt.Sprintf("📦 [%s] Order %s moved from %s to %s",
			timestamp, event.OrderID, event.OldStatus.Display(), event.NewStatus.Display())
	default:
		return fmt.Sprintf("ℹ️ [%s] Order %s event %s",
			timestamp, event.OrderID, event.Type)
	}
}
