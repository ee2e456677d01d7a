package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"

	"github.com/example/coffee-shop/modules/catalog"
)

// Module provides cart services over the shared database.
type Module struct {
	db      *gorm.DB
	repo    *Repository
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new cart module over the shared database.
func NewModule(db *gorm.DB) *Module {
	return &Module{db: db}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// Repository exposes cart storage for the checkout engine, which
// drains consumed lines inside its own transaction.
func (m *Module) Repository() *Repository {
	return m.repo
}

// Start wires the repository and service.
func (m *Module) Start(_ context.Context) error {
	m.repo = NewRepository(m.db)
	m.service = NewService(m.db, m.repo, catalog.NewRepository(m.db))
	log.Println("[cart] Module started")
	return nil
}

// Stop is a no-op; the shared database is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[cart] Module stopped")
	return nil
}

// Health performs a database health check.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers cart request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "add-item", json.Unmarshal, json.Marshal, m.addItem,
	); err != nil {
		return fmt.Errorf("failed to register add-item service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "edit-item", json.Unmarshal, json.Marshal, m.editItem,
	); err != nil {
		return fmt.Errorf("failed to register edit-item service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "remove-item", json.Unmarshal, json.Marshal, m.removeItem,
	); err != nil {
		return fmt.Errorf("failed to register remove-item service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-items", json.Unmarshal, json.Marshal, m.listItems,
	); err != nil {
		return fmt.Errorf("failed to register list-items service: %w", err)
	}

	log.Printf("[cart] Registered services: services.cart.{add-item,edit-item,remove-item,list-items}")
	return nil
}

// addItem handles the cart.add-item service request.
func (m *Module) addItem(ctx context.Context, req AddItemRequest, _ *mono.Msg) (AddItemResponse, error) {
	item, err := m.service.AddItem(ctx, req.MemberID, req.ProductID, req.Quantity)
	if err != nil {
		return AddItemResponse{}, err
	}
	return AddItemResponse{
		ItemID:    item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}, nil
}

// editItem handles the cart.edit-item service request.
func (m *Module) editItem(ctx context.Context, req EditItemRequest, _ *mono.Msg) (EditItemResponse, error) {
	item, err := m.service.SetItemQuantity(ctx, req.ItemID, req.Quantity)
	if err != nil {
		return EditItemResponse{}, err
	}
	return EditItemResponse{ItemID: item.ID, Quantity: item.Quantity}, nil
}

// removeItem handles the cart.remove-item service request.
func (m *Module) removeItem(ctx context.Context, req RemoveItemRequest, _ *mono.Msg) (RemoveItemResponse, error) {
	if err := m.service.RemoveItem(ctx, req.ItemID); err != nil {
		return RemoveItemResponse{}, err
	}
	return RemoveItemResponse{ItemID: req.ItemID}, nil
}

// listItems handles the cart.list-items service request.
func (m *Module) listItems(ctx context.Context, req ListItemsRequest, _ *mono.Msg) (ListItemsResponse, error) {
	items, err := m.service.ListItems(ctx, req.MemberID)
	if err != nil {
		return ListItemsResponse{}, err
	}
	return ListItemsResponse{Items: items, Total: len(items)}, nil
}
