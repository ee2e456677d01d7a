package order

import (
	"time"

	memberdomain "github.com/example/coffee-shop/domain/member"
	domain "github.com/example/coffee-shop/domain/order"
)

// OrderLineRequest is one (product, quantity) pair in a checkout
// request. CartItemID links the line to the cart row it came from;
// zero for a direct purchase.
type OrderLineRequest struct {
	ProductID  uint `json:"product_id"`
	Quantity   int  `json:"quantity"`
	CartItemID uint `json:"cart_item_id,omitempty"`
}

// PlaceOrderRequest is the request type for the place service.
type PlaceOrderRequest struct {
	MemberID uint               `json:"member_id"`
	Status   domain.Status      `json:"status,omitempty"`
	Lines    []OrderLineRequest `json:"lines"`
}

// PlaceOrderResponse is the response type for the place service.
type PlaceOrderResponse struct {
	OrderID   uint          `json:"order_id"`
	Status    domain.Status `json:"status"`
	OrderDate time.Time     `json:"order_date"`
}

// ListOrdersRequest is the request type for the list service. Role
// scopes the result set: administrators see every pending order,
// regular members only their own.
type ListOrdersRequest struct {
	MemberID uint              `json:"member_id"`
	Role     memberdomain.Role `json:"role"`
}

// ListOrdersResponse is the response type for the list service.
type ListOrdersResponse struct {
	Orders []OrderDetail `json:"orders"`
}

// UpdateStatusRequest is the request type for the update-status service.
type UpdateStatusRequest struct {
	OrderID uint          `json:"order_id"`
	Status  domain.Status `json:"status"`
}

// UpdateStatusResponse is the response type for the update-status service.
type UpdateStatusResponse struct {
	OrderID uint          `json:"order_id"`
	Status  domain.Status `json:"status"`
}

// CancelOrderRequest is the request type for the cancel service.
type CancelOrderRequest struct {
	OrderID uint `json:"order_id"`
}

// CancelOrderResponse is the response type for the cancel service.
type CancelOrderResponse struct {
	Canceled bool `json:"canceled"`
	OrderID  uint `json:"order_id"`
}
