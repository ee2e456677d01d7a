package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CartPort is the interface the api module uses to reach cart services.
type CartPort interface {
	AddItem(ctx context.Context, req AddItemRequest) (*AddItemResponse, error)
	EditItem(ctx context.Context, req EditItemRequest) (*EditItemResponse, error)
	RemoveItem(ctx context.Context, itemID uint) error
	ListItems(ctx context.Context, memberID uint) (*ListItemsResponse, error)
}

type cartAdapter struct {
	container mono.ServiceContainer
}

// NewCartAdapter creates an adapter for cart services.
func NewCartAdapter(container mono.ServiceContainer) CartPort {
	return &cartAdapter{container: container}
}

func callService[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *cartAdapter) AddItem(ctx context.Context, req AddItemRequest) (*AddItemResponse, error) {
	var resp AddItemResponse
	if err := callService(ctx, a.container, "add-item", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *cartAdapter) EditItem(ctx context.Context, req EditItemRequest) (*EditItemResponse, error) {
	var resp EditItemResponse
	if err := callService(ctx, a.container, "edit-item", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *cartAdapter) RemoveItem(ctx context.Context, itemID uint) error {
	req := RemoveItemRequest{ItemID: itemID}
	var resp RemoveItemResponse
	return callService(ctx, a.container, "remove-item", &req, &resp)
}

func (a *cartAdapter) ListItems(ctx context.Context, memberID uint) (*ListItemsResponse, error) {
	req := ListItemsRequest{MemberID: memberID}
	var resp ListItemsResponse
	if err := callService(ctx, a.container, "list-items", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
