package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/coffee-shop/events"
)

// NotificationLog represents a logged notification.
type NotificationLog struct {
	OrderID   uint      `json:"order_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

// Module consumes order lifecycle events and records customer
// notifications. The in-memory log stands in for an email or push
// delivery channel.
type Module struct {
	notifications []NotificationLog
	mu            sync.RWMutex
}

var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)

func NewModule() *Module {
	return &Module{
		notifications: make([]NotificationLog, 0),
	}
}

func (m *Module) Name() string {
	return "notification"
}

func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderPlacedV1, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderCanceledV1, m.handleOrderCanceled, m); err != nil {
		return fmt.Errorf("failed to register OrderCanceled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderStatusChangedV1, m.handleStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register OrderStatusChanged consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: OrderPlaced, OrderCanceled, OrderStatusChanged")
	return nil
}

func (m *Module) handleOrderPlaced(_ context.Context, event events.OrderPlacedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Order placed: %d by member %d (%d lines)", event.OrderID, event.MemberID, event.Lines)
	m.logNotification(event.OrderID, "order_placed",
		fmt.Sprintf("Order %d placed with %d items", event.OrderID, event.Lines))
	return nil
}

func (m *Module) handleOrderCanceled(_ context.Context, event events.OrderCanceledEvent, _ *mono.Msg) error {
	log.Printf("[notification] Order canceled: %d by member %d", event.OrderID, event.MemberID)
	m.logNotification(event.OrderID, "order_canceled",
		fmt.Sprintf("Order %d canceled, stock restored", event.OrderID))
	return nil
}

func (m *Module) handleStatusChanged(_ context.Context, event events.OrderStatusChangedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Order %d status: %s -> %s", event.OrderID, event.OldStatus, event.NewStatus)
	m.logNotification(event.OrderID, "order_status_changed",
		fmt.Sprintf("Order %d is now %s", event.OrderID, event.NewStatus))
	return nil
}

func (m *Module) logNotification(orderID uint, notificationType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, NotificationLog{
		OrderID:   orderID,
		Type:      notificationType,
		Message:   message,
		Channel:   "event",
		Timestamp: time.Now(),
	})
}

// GetNotifications returns a snapshot of the delivered notifications.
func (m *Module) GetNotifications() []NotificationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]NotificationLog, len(m.notifications))
	copy(result, m.notifications)
	return result
}

func (m *Module) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for order events")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
