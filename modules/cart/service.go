package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/coffee-shop/domain/cart"
	"github.com/example/coffee-shop/modules/catalog"
)

var (
	// ErrInvalidQuantity is returned when a quantity is below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInvalidMemberID is returned for a malformed member reference.
	ErrInvalidMemberID = errors.New("invalid member id")
)

// Service is the cart line manager. Adding never checks stock; the
// checkout transaction is the single point of truth for availability.
type Service struct {
	db       *gorm.DB
	repo     *Repository
	products *catalog.Repository
}

// NewService creates a cart service over the shared database.
func NewService(db *gorm.DB, repo *Repository, products *catalog.Repository) *Service {
	return &Service{db: db, repo: repo, products: products}
}

// AddItem merges quantity into the member's cart line for the product,
// creating the cart and the line as needed. A second add for the same
// product accumulates; it never produces a duplicate line.
func (s *Service) AddItem(_ context.Context, memberID, productID uint, quantity int) (*domain.CartItem, error) {
	if memberID == 0 {
		return nil, ErrInvalidMemberID
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var result *domain.CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.products.WithTx(tx).FindByID(productID); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		c, err := repo.FindOrCreateByMember(memberID)
		if err != nil {
			return err
		}

		item, err := repo.FindItemForUpdate(c.ID, productID)
		switch {
		case err == nil:
			item.Quantity += quantity
			if err := repo.SaveItem(item); err != nil {
				return err
			}
			result = item
			return nil
		case errors.Is(err, ErrCartItemNotFound):
			item = &domain.CartItem{CartID: c.ID, ProductID: productID, Quantity: quantity}
			if err := repo.CreateItem(item); err != nil {
				return err
			}
			result = item
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetItemQuantity overwrites a line's quantity.
func (s *Service) SetItemQuantity(_ context.Context, itemID uint, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.FindItemByID(itemID)
	if err != nil {
		return nil, err
	}
	item.Quantity = quantity
	if err := s.repo.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a line. An already-gone line silently succeeds.
func (s *Service) RemoveItem(_ context.Context, itemID uint) error {
	return s.repo.DeleteItem(itemID)
}

// ListItems returns the member's cart lines with product details, or an
// empty slice when the member has no cart yet.
func (s *Service) ListItems(_ context.Context, memberID uint) ([]ItemDetail, error) {
	if memberID == 0 {
		return nil, ErrInvalidMemberID
	}

	c, err := s.repo.FindCartByMember(memberID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []ItemDetail{}, nil
	}

	details, err := s.repo.ListItemDetails(c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for member %d: %w", memberID, err)
	}
	return details, nil
}
