package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	memberdomain "github.com/example/coffee-shop/domain/member"
	domain "github.com/example/coffee-shop/domain/order"
)

// OrderPort is the interface other modules use to reach the order
// engine over the service container.
type OrderPort interface {
	Place(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error)
	List(ctx context.Context, memberID uint, role memberdomain.Role) (*ListOrdersResponse, error)
	UpdateStatus(ctx context.Context, orderID uint, status domain.Status) error
	Cancel(ctx context.Context, orderID uint) error
}

type orderAdapter struct {
	container mono.ServiceContainer
}

// NewOrderAdapter creates an adapter for order services.
func NewOrderAdapter(container mono.ServiceContainer) OrderPort {
	return &orderAdapter{container: container}
}

func callService[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *orderAdapter) Place(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	var resp PlaceOrderResponse
	if err := callService(ctx, a.container, "place", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) List(ctx context.Context, memberID uint, role memberdomain.Role) (*ListOrdersResponse, error) {
	req := ListOrdersRequest{MemberID: memberID, Role: role}
	var resp ListOrdersResponse
	if err := callService(ctx, a.container, "list", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAdapter) UpdateStatus(ctx context.Context, orderID uint, status domain.Status) error {
	req := UpdateStatusRequest{OrderID: orderID, Status: status}
	var resp UpdateStatusResponse
	return callService(ctx, a.container, "update-status", &req, &resp)
}

func (a *orderAdapter) Cancel(ctx context.Context, orderID uint) error {
	req := CancelOrderRequest{OrderID: orderID}
	var resp CancelOrderResponse
	return callService(ctx, a.container, "cancel", &req, &resp)
}
