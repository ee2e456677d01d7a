package cart

import "time"

// Cart is a member's open shopping basket. There is at most one per
// member (enforced by the unique index) and it is created lazily on the
// first add; it is never deleted, only its items come and go.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"uniqueIndex;not null" json:"member_id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName returns the table name for the Cart entity.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one (product, quantity) line inside a cart. The composite
// unique index is what makes a second add for the same product merge
// into the existing line instead of inserting a duplicate.
type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}

// TableName returns the table name for the CartItem entity.
func (CartItem) TableName() string {
	return "cart_items"
}
