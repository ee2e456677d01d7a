package catalog

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/example/coffee-shop/domain/product"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError is returned when a stock decrement would drive
// the counter negative. It names the offending product so callers can
// surface which line of a multi-line order failed.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Stock       int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): %d available, %d requested",
		e.ProductName, e.ProductID, e.Stock, e.Requested)
}

// SearchParams are the catalog listing filters. Zero values mean "no
// filter"; results are always ordered newest-first (id descending).
type SearchParams struct {
	Category Category
	Mode     string // "name" or "description"
	Keyword  string
	DateType string // "all", "1d", "1w", "1m", "6m"
	Page     int    // zero-based
	Size     int
}

// Category re-exports the domain type for request payloads.
type Category = domain.Category

// Repository provides access to product storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create saves a new product.
func (r *Repository) Create(product *domain.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its ID.
func (r *Repository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindByIDForUpdate retrieves a product under a row lock. Meaningful
// only inside a transaction; the checkout engine uses it so two
// concurrent orders serialize on the same product row.
func (r *Repository) FindByIDForUpdate(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// Save persists all fields of an existing product.
func (r *Repository) Save(product *domain.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&domain.Product{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Count returns the number of products in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// AdjustStock applies a guarded stock delta. Negative deltas only
// succeed while enough stock remains, so the non-negativity invariant
// holds even when validation raced another writer; positive deltas
// restore stock on cancellation.
func (r *Repository) AdjustStock(id uint, delta int) error {
	query := r.db.Model(&domain.Product{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock >= ?", -delta)
	}

	result := query.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// The guard rejected the update: either the product vanished or the
	// remaining stock cannot cover the decrement.
	product, err := r.FindByID(id)
	if err != nil {
		return err
	}
	return &InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Stock:       product.Stock,
		Requested:   -delta,
	}
}

// Search lists products matching the given filters, newest-first, and
// returns the total match count for paging.
func (r *Repository) Search(params SearchParams) ([]domain.Product, int64, error) {
	query := r.db.Model(&domain.Product{})

	if params.Category != "" && params.Category != domain.CategoryAll {
		query = query.Where("category = ?", params.Category)
	}
	if params.Keyword != "" {
		pattern := "%" + params.Keyword + "%"
		switch params.Mode {
		case "description":
			query = query.Where("description LIKE ?", pattern)
		default:
			query = query.Where("name LIKE ?", pattern)
		}
	}
	if since, ok := searchSince(params.DateType); ok {
		query = query.Where("input_date >= ?", since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order("id DESC")
	if params.Size > 0 {
		query = query.Offset(params.Page * params.Size).Limit(params.Size)
	}

	var products []domain.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// searchSince translates a date-range token into a lower bound.
func searchSince(dateType string) (time.Time, bool) {
	now := time.Now()
	switch dateType {
	case "1d":
		return now.AddDate(0, 0, -1), true
	case "1w":
		return now.AddDate(0, 0, -7), true
	case "1m":
		return now.AddDate(0, -1, 0), true
	case "6m":
		return now.AddDate(0, -6, 0), true
	}
	return time.Time{}, false
}
