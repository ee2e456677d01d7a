package order

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/example/coffee-shop/domain/order"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// Repository provides access to order storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists an order together with its lines.
func (r *Repository) Create(o *domain.Order) error {
	if err := r.db.Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order with its lines.
func (r *Repository) FindByID(id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// FindByIDForUpdate retrieves an order with its lines under a row lock
// so status updates and cancellation serialize on the order row.
func (r *Repository) FindByIDForUpdate(id uint) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if err := r.db.Where("order_id = ?", id).Order("id").Find(&o.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	return &o, nil
}

// SaveStatus overwrites an order's status.
func (r *Repository) SaveStatus(id uint, status domain.Status) error {
	result := r.db.Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListPending returns PENDING orders newest-first (descending id, the
// creation-order proxy). A nil memberID lists every member's orders.
func (r *Repository) ListPending(memberID *uint) ([]domain.Order, error) {
	query := r.db.Preload("Items").Where("status = ?", domain.StatusPending)
	if memberID != nil {
		query = query.Where("member_id = ?", *memberID)
	}

	var orders []domain.Order
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// DeleteWithItems removes the order and its lines. The child rows go
// first, explicitly, in the caller's transaction; there is no reliance
// on database-level cascades.
func (r *Repository) DeleteWithItems(id uint) error {
	if err := r.db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	result := r.db.Delete(&domain.Order{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
