package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"gorm.io/gorm"

	memberdomain "github.com/example/coffee-shop/domain/member"
	domain "github.com/example/coffee-shop/domain/order"
	"github.com/example/coffee-shop/events"
	"github.com/example/coffee-shop/modules/account"
	cartmod "github.com/example/coffee-shop/modules/cart"
	"github.com/example/coffee-shop/modules/catalog"
)

var (
	// ErrInvalidOrder is returned when an order payload fails validation.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrCanceledOrderLocked is returned when a status change targets a
	// CANCELED order; that state is terminal.
	ErrCanceledOrderLocked = errors.New("canceled order cannot change status")
)

// OrderLine is one requested (product, quantity) pair at checkout.
// CartItemID links back to the cart line being purchased; zero means a
// direct "buy now" with no cart side effect.
type OrderLine struct {
	ProductID  uint
	Quantity   int
	CartItemID uint
}

// Service is the order transaction engine and query side. Checkout,
// cancellation, and status changes each run as one database
// transaction over the shared store; validation always precedes
// mutation so a failure leaves no partial state behind.
type Service struct {
	db       *gorm.DB
	orders   *Repository
	products *catalog.Repository
	carts    *cartmod.Repository
	members  *account.MemberRepository

	catalog  *catalog.Service // cache invalidation after stock changes; may be nil
	eventBus mono.EventBus    // best-effort lifecycle events; may be nil
}

// NewService creates the order service over the shared database.
func NewService(db *gorm.DB, orders *Repository, products *catalog.Repository,
	carts *cartmod.Repository, members *account.MemberRepository) *Service {
	return &Service{
		db:       db,
		orders:   orders,
		products: products,
		carts:    carts,
		members:  members,
	}
}

// SetCatalogService attaches the catalog read side for cache
// invalidation after committed stock changes.
func (s *Service) SetCatalogService(c *catalog.Service) {
	s.catalog = c
}

// SetEventBus attaches the event bus for lifecycle events.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// PlaceOrder runs the checkout transaction: resolve the member, lock
// and validate every product line, and only then create the order,
// decrement stock, and drain the consumed cart lines. Any failure
// rolls the whole unit back.
func (s *Service) PlaceOrder(_ context.Context, memberID uint, status domain.Status, lines []OrderLine) (*domain.Order, error) {
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", ErrInvalidOrder)
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidOrder)
		}
	}

	var placed *domain.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.members.WithTx(tx).FindByID(memberID); err != nil {
			return err
		}

		products := s.products.WithTx(tx)

		// Validation phase: every line's product must exist and cover
		// the requested quantity, each checked on its own, before any
		// write happens.
		for _, line := range lines {
			p, err := products.FindByIDForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < line.Quantity {
				return &catalog.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Stock:       p.Stock,
					Requested:   line.Quantity,
				}
			}
		}

		// Mutation phase. The guarded decrement re-checks the floor, so
		// even a pathological request with the same product twice
		// cannot push stock negative.
		o := &domain.Order{
			MemberID:  memberID,
			OrderDate: time.Now(),
			Status:    status,
		}
		carts := s.carts.WithTx(tx)
		for _, line := range lines {
			if err := products.AdjustStock(line.ProductID, -line.Quantity); err != nil {
				return err
			}
			if line.CartItemID != 0 {
				if err := carts.DeleteItem(line.CartItemID); err != nil {
					return err
				}
			}
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}

		if err := s.orders.WithTx(tx).Create(o); err != nil {
			return err
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProducts(placed.Items)
	if s.eventBus != nil {
		event := events.OrderPlacedEvent{
			OrderID:  placed.ID,
			MemberID: placed.MemberID,
			Lines:    len(placed.Items),
			PlacedAt: placed.OrderDate,
		}
		if err := events.OrderPlacedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderPlaced event for order %d: %v", placed.ID, err)
		}
	}
	return placed, nil
}

// OrderDetail is the listing row handed to the browser client.
type OrderDetail struct {
	OrderID    uint             `json:"order_id"`
	MemberName string           `json:"member_name"`
	OrderDate  time.Time        `json:"order_date"`
	Status     domain.Status    `json:"status"`
	Items      []OrderItemBrief `json:"items"`
}

// OrderItemBrief is one purchased line in a listing row.
type OrderItemBrief struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// ListOrders returns PENDING orders newest-first: every member's for an
// administrator, the caller's own otherwise. The role is trusted as
// handed in; resolving it from credentials belongs to the api layer.
func (s *Service) ListOrders(_ context.Context, memberID uint, role memberdomain.Role) ([]OrderDetail, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidOrder, role)
	}

	var orders []domain.Order
	var err error
	if role == memberdomain.RoleAdmin {
		orders, err = s.orders.ListPending(nil)
	} else {
		orders, err = s.orders.ListPending(&memberID)
	}
	if err != nil {
		return nil, err
	}

	return s.toOrderDetails(orders)
}

// toOrderDetails joins orders with member and product names.
func (s *Service) toOrderDetails(orders []domain.Order) ([]OrderDetail, error) {
	memberNames := map[uint]string{}
	productNames := map[uint]string{}

	details := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		name, ok := memberNames[o.MemberID]
		if !ok {
			m, err := s.members.FindByID(o.MemberID)
			if err != nil && !errors.Is(err, account.ErrMemberNotFound) {
				return nil, err
			}
			if m != nil {
				name = m.Name
			}
			memberNames[o.MemberID] = name
		}

		detail := OrderDetail{
			OrderID:    o.ID,
			MemberName: name,
			OrderDate:  o.OrderDate,
			Status:     o.Status,
			Items:      make([]OrderItemBrief, 0, len(o.Items)),
		}
		for _, item := range o.Items {
			pname, ok := productNames[item.ProductID]
			if !ok {
				p, err := s.products.FindByID(item.ProductID)
				if err != nil && !errors.Is(err, catalog.ErrProductNotFound) {
					return nil, err
				}
				if p != nil {
					pname = p.Name
				}
				productNames[item.ProductID] = pname
			}
			detail.Items = append(detail.Items, OrderItemBrief{
				ProductName: pname,
				Quantity:    item.Quantity,
			})
		}
		details = append(details, detail)
	}
	return details, nil
}

// UpdateStatus overwrites an order's status. The one transition rule:
// a CANCELED order never changes again.
func (s *Service) UpdateStatus(_ context.Context, orderID uint, newStatus domain.Status) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, newStatus)
	}

	var oldStatus domain.Status
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.FindByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o.Status == domain.StatusCanceled {
			return ErrCanceledOrderLocked
		}
		oldStatus = o.Status
		return orders.SaveStatus(orderID, newStatus)
	})
	if err != nil {
		return err
	}

	if s.eventBus != nil && oldStatus != newStatus {
		event := events.OrderStatusChangedEvent{
			OrderID:   orderID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ChangedAt: time.Now(),
		}
		if err := events.OrderStatusChangedV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderStatusChanged event for order %d: %v", orderID, err)
		}
	}
	return nil
}

// CancelOrder restores each line's stock and deletes the order with
// its lines, the structural inverse of PlaceOrder's decrement. When
// nothing intervened, stock returns exactly to its pre-order level.
func (s *Service) CancelOrder(_ context.Context, orderID uint) error {
	var canceled *domain.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.FindByIDForUpdate(orderID)
		if err != nil {
			return err
		}

		products := s.products.WithTx(tx)
		for _, item := range o.Items {
			if err := products.AdjustStock(item.ProductID, item.Quantity); err != nil {
				// Restoring stock for a product that was deleted after
				// purchase has nothing to add back to; skip it.
				if errors.Is(err, catalog.ErrProductNotFound) {
					continue
				}
				return err
			}
		}

		if err := orders.DeleteWithItems(orderID); err != nil {
			return err
		}
		canceled = o
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateProducts(canceled.Items)
	if s.eventBus != nil {
		event := events.OrderCanceledEvent{
			OrderID:    canceled.ID,
			MemberID:   canceled.MemberID,
			CanceledAt: time.Now(),
		}
		if err := events.OrderCanceledV1.Publish(s.eventBus, event, nil); err != nil {
			log.Printf("[order] Warning: failed to publish OrderCanceled event for order %d: %v", orderID, err)
		}
	}
	return nil
}

// invalidateProducts drops cached catalog entries for purchased
// products after a committed stock change.
func (s *Service) invalidateProducts(items []domain.OrderItem) {
	if s.catalog == nil {
		return
	}
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	s.catalog.Invalidate(context.Background(), ids...)
}
