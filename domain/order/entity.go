package order

import "time"

// Status is the order lifecycle state. Orders start PENDING; an
// administrator moves them to COMPLETED, and cancellation removes the
// order entirely. A CANCELED order can never change status again;
// COMPLETED is deliberately not treated as terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Order is a snapshot of purchased lines captured at checkout. The line
// content never changes after creation; only Status is mutable. IDs are
// auto-increment, so descending id is newest-first.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	MemberID  uint        `gorm:"index;not null" json:"member_id"`
	OrderDate time.Time   `gorm:"not null" json:"order_date"`
	Status    Status      `gorm:"size:20;index;not null" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName returns the table name for the Order entity.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is the historical record of one purchased (product,
// quantity) pair. The product is referenced by id only; later catalog
// edits do not rewrite history.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index;not null" json:"order_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for the OrderItem entity.
func (OrderItem) TableName() string {
	return "order_items"
}
