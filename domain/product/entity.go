package product

import "time"

// Category classifies a product for catalog filtering.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryBread    Category = "BREAD"
	CategoryBeverage Category = "BEVERAGE"
	CategoryCake     Category = "CAKE"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryBread, CategoryBeverage, CategoryCake:
		return true
	}
	return false
}

// Product is a sellable catalog item. Stock is the number of units
// available for purchase and must never go negative; every mutation
// path goes through the catalog repository's guarded updates.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Category    Category  `gorm:"size:20;not null;default:ALL" json:"category"`
	Price       int       `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	Description string    `gorm:"size:500" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	InputDate   time.Time `json:"input_date"`
}

// TableName returns the table name for the Product entity.
func (Product) TableName() string {
	return "products"
}
