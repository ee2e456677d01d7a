package catalog

import "time"

// CreateProductRequest is the request for registering a product. Image
// may be a base64 data URL (stored and replaced by a file name) or an
// already-stored file name.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
}

// ProductResponse represents a product in responses.
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	InputDate   time.Time `json:"input_date"`
}

// GetProductRequest is the request for getting a product.
type GetProductRequest struct {
	ID uint `json:"id"`
}

// ListProductsRequest carries the catalog search filters.
type ListProductsRequest struct {
	Category Category `json:"category,omitempty"`
	Mode     string   `json:"mode,omitempty"`
	Keyword  string   `json:"keyword,omitempty"`
	DateType string   `json:"date_type,omitempty"`
	Page     int      `json:"page"`
	Size     int      `json:"size"`
}

// ListProductsResponse is the paged catalog listing.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

// UpdateProductRequest is the request for updating a product. Nil
// fields are left unchanged.
type UpdateProductRequest struct {
	ID          uint      `json:"id"`
	Name        *string   `json:"name,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Price       *int      `json:"price,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
}

// DeleteProductRequest is the request for deleting a product.
type DeleteProductRequest struct {
	ID uint `json:"id"`
}

// DeleteProductResponse is the response after deleting a product.
type DeleteProductResponse struct {
	Deleted bool `json:"deleted"`
	ID      uint `json:"id"`
}
