package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/example/coffee-shop/domain/cart"
)

// ErrCartItemNotFound is returned when a cart line is not found.
var ErrCartItemNotFound = errors.New("cart item not found")

// ItemDetail is a cart line joined with its product for the list view.
type ItemDetail struct {
	ItemID    uint   `json:"item_id"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Image     string `json:"image"`
	Stock     int    `json:"stock"`
}

// Repository provides access to cart storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new cart repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindOrCreateByMember returns the member's cart, creating it on first
// use. Run inside a transaction this is the atomic find-or-create that
// keeps concurrent first adds from producing duplicate carts (the
// unique index on member_id backs it up).
func (r *Repository) FindOrCreateByMember(memberID uint) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.Where(domain.Cart{MemberID: memberID}).FirstOrCreate(&c).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find or create cart: %w", err)
	}
	return &c, nil
}

// FindCartByMember returns the member's cart or nil when none exists.
func (r *Repository) FindCartByMember(memberID uint) (*domain.Cart, error) {
	var c domain.Cart
	err := r.db.Where("member_id = ?", memberID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return &c, nil
}

// FindItemByID retrieves a cart line by its ID.
func (r *Repository) FindItemByID(itemID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// FindItemForUpdate looks up the line for (cart, product) under a row
// lock so concurrent adds merge instead of duplicating.
func (r *Repository) FindItemForUpdate(cartID, productID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(item *domain.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// SaveItem persists a mutated cart line.
func (r *Repository) SaveItem(item *domain.CartItem) error {
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a cart line by ID. Deleting an absent line is not
// an error; the remove endpoint is idempotent.
func (r *Repository) DeleteItem(itemID uint) error {
	if err := r.db.Delete(&domain.CartItem{}, itemID).Error; err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ListItemDetails returns the cart's lines joined with product details,
// in insertion order.
func (r *Repository) ListItemDetails(cartID uint) ([]ItemDetail, error) {
	var rows []ItemDetail
	err := r.db.Table("cart_items").
		Select("cart_items.id AS item_id, cart_items.product_id, cart_items.quantity, "+
			"products.name, products.price, products.image, products.stock").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return rows, nil
}
