package api

import (
	memberdomain "github.com/example/coffee-shop/domain/member"
	domain "github.com/example/coffee-shop/domain/order"
)

// ErrorResponse is the error payload returned to clients.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SignupRequest is the HTTP payload for member registration.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

// LoginRequest is the HTTP payload for member login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddCartItemRequest is the HTTP payload for adding a cart line.
type AddCartItemRequest struct {
	MemberID  uint `json:"member_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// EditCartItemRequest is the HTTP payload for overwriting a line's
// quantity.
type EditCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// PlaceOrderRequest is the HTTP payload for checkout. Each line may
// carry the cart item it came from so checkout drains the cart.
type PlaceOrderRequest struct {
	MemberID uint          `json:"member_id"`
	Status   domain.Status `json:"status,omitempty"`
	Lines    []OrderLine   `json:"lines"`
}

// OrderLine is one purchased (product, quantity) pair.
type OrderLine struct {
	ProductID  uint `json:"product_id"`
	Quantity   int  `json:"quantity"`
	CartItemID uint `json:"cart_item_id,omitempty"`
}

// CreateProductRequest is the HTTP payload for creating a product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// UpdateProductRequest is the HTTP payload for updating a product.
// Absent fields keep their current values.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Price       *int    `json:"price,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// claimsRole extracts the role from stored claims with a safe default.
func claimsRole(claims *memberdomain.Claims) memberdomain.Role {
	if claims == nil {
		return memberdomain.RoleUser
	}
	return claims.Role
}
