package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/coffee-shop/domain/order"
)

// OrderPlacedEvent is emitted after a checkout transaction commits.
type OrderPlacedEvent struct {
	OrderID  uint      `json:"order_id"`
	MemberID uint      `json:"member_id"`
	Lines    int       `json:"lines"`
	PlacedAt time.Time `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for order placement.
// Subject: events.order.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"order", "OrderPlaced", "v1",
)

// OrderCanceledEvent is emitted after a cancellation restores stock and
// deletes the order.
type OrderCanceledEvent struct {
	OrderID    uint      `json:"order_id"`
	MemberID   uint      `json:"member_id"`
	CanceledAt time.Time `json:"canceled_at"`
}

// OrderCanceledV1 is the typed event definition for order cancellation.
// Subject: events.order.v1.order-canceled
var OrderCanceledV1 = helper.EventDefinition[OrderCanceledEvent](
	"order", "OrderCanceled", "v1",
)

// OrderStatusChangedEvent is emitted when an order's status is
// overwritten by an administrator.
type OrderStatusChangedEvent struct {
	OrderID   uint         `json:"order_id"`
	OldStatus order.Status `json:"old_status"`
	NewStatus order.Status `json:"new_status"`
	ChangedAt time.Time    `json:"changed_at"`
}

// OrderStatusChangedV1 is the typed event definition for status changes.
// Subject: events.order.v1.order-status-changed
var OrderStatusChangedV1 = helper.EventDefinition[OrderStatusChangedEvent](
	"order", "OrderStatusChanged", "v1",
)
