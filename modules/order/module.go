package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"

	"github.com/example/coffee-shop/events"
	"github.com/example/coffee-shop/modules/account"
	cartmod "github.com/example/coffee-shop/modules/cart"
	"github.com/example/coffee-shop/modules/catalog"
)

// Module provides checkout, cancellation, status updates, and order
// listings. It owns the cross-module transactions over the shared
// database: an order touches products, cart lines, and members in one
// atomic unit.
type Module struct {
	db      *gorm.DB
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)

// NewModule creates a new order module over the shared database. The
// sibling repositories are plain wrappers over the same *gorm.DB, so
// the module builds its own instances rather than waiting on the
// siblings' start order.
func NewModule(db *gorm.DB) *Module {
	service := NewService(
		db,
		NewRepository(db),
		catalog.NewRepository(db),
		cartmod.NewRepository(db),
		account.NewMemberRepository(db),
	)
	return &Module{db: db, service: service}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "order"
}

// SetEventBus wires the event bus into the service.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.service.SetEventBus(bus)
}

// EmitEvents declares the order lifecycle events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderPlacedV1.ToBase(),
		events.OrderCanceledV1.ToBase(),
		events.OrderStatusChangedV1.ToBase(),
	}
}

// SetCatalogService attaches the catalog read side for cache
// invalidation; called after app start once the catalog module has
// built its service.
func (m *Module) SetCatalogService(c *catalog.Service) {
	m.service.SetCatalogService(c)
}

// Service exposes the order service for direct use in tests.
func (m *Module) Service() *Service {
	return m.service
}

// Start performs module startup.
func (m *Module) Start(_ context.Context) error {
	log.Println("[order] Module started")
	return nil
}

// Stop is a no-op; the shared database is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[order] Module stopped")
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

// RegisterServices registers order request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "place", json.Unmarshal, json.Marshal, m.placeOrder,
	); err != nil {
		return fmt.Errorf("failed to register place service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listOrders,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update-status", json.Unmarshal, json.Marshal, m.updateStatus,
	); err != nil {
		return fmt.Errorf("failed to register update-status service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "cancel", json.Unmarshal, json.Marshal, m.cancelOrder,
	); err != nil {
		return fmt.Errorf("failed to register cancel service: %w", err)
	}

	log.Printf("[order] Registered services: services.order.{place,list,update-status,cancel}")
	return nil
}

// placeOrder handles the order.place service request.
func (m *Module) placeOrder(ctx context.Context, req PlaceOrderRequest, _ *mono.Msg) (PlaceOrderResponse, error) {
	if req.MemberID == 0 {
		return PlaceOrderResponse{}, fmt.Errorf("%w: member_id is required", ErrInvalidOrder)
	}

	lines := make([]OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, OrderLine{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			CartItemID: l.CartItemID,
		})
	}

	placed, err := m.service.PlaceOrder(ctx, req.MemberID, req.Status, lines)
	if err != nil {
		return PlaceOrderResponse{}, err
	}
	return PlaceOrderResponse{
		OrderID:   placed.ID,
		Status:    placed.Status,
		OrderDate: placed.OrderDate,
	}, nil
}

// listOrders handles the order.list service request.
func (m *Module) listOrders(ctx context.Context, req ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	details, err := m.service.ListOrders(ctx, req.MemberID, req.Role)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	return ListOrdersResponse{Orders: details}, nil
}

// updateStatus handles the order.update-status service request.
func (m *Module) updateStatus(ctx context.Context, req UpdateStatusRequest, _ *mono.Msg) (UpdateStatusResponse, error) {
	if req.OrderID == 0 {
		return UpdateStatusResponse{}, fmt.Errorf("%w: order_id is required", ErrInvalidOrder)
	}
	if err := m.service.UpdateStatus(ctx, req.OrderID, req.Status); err != nil {
		return UpdateStatusResponse{}, err
	}
	return UpdateStatusResponse{OrderID: req.OrderID, Status: req.Status}, nil
}

// cancelOrder handles the order.cancel service request.
func (m *Module) cancelOrder(ctx context.Context, req CancelOrderRequest, _ *mono.Msg) (CancelOrderResponse, error) {
	if req.OrderID == 0 {
		return CancelOrderResponse{}, fmt.Errorf("%w: order_id is required", ErrInvalidOrder)
	}
	if err := m.service.CancelOrder(ctx, req.OrderID); err != nil {
		return CancelOrderResponse{Canceled: false, OrderID: req.OrderID}, err
	}
	return CancelOrderResponse{Canceled: true, OrderID: req.OrderID}, nil
}
