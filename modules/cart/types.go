package cart

// AddItemRequest is the request for adding a product to a cart.
type AddItemRequest struct {
	MemberID  uint `json:"member_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// AddItemResponse reports the merged line after an add.
type AddItemResponse struct {
	ItemID    uint `json:"item_id"`
	CartID    uint `json:"cart_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// EditItemRequest is the request for overwriting a line's quantity.
type EditItemRequest struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// EditItemResponse reports the line after the edit.
type EditItemResponse struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// RemoveItemRequest is the request for removing a line.
type RemoveItemRequest struct {
	ItemID uint `json:"item_id"`
}

// RemoveItemResponse acknowledges the removal.
type RemoveItemResponse struct {
	ItemID uint `json:"item_id"`
}

// ListItemsRequest is the request for listing a member's cart.
type ListItemsRequest struct {
	MemberID uint `json:"member_id"`
}

// ListItemsResponse is the cart listing with product details.
type ListItemsResponse struct {
	Items []ItemDetail `json:"items"`
	Total int          `json:"total"`
}
