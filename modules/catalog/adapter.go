package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// CatalogPort is the interface other modules use to reach the catalog
// over the service container.
type CatalogPort interface {
	Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	Get(ctx context.Context, id uint) (*ProductResponse, error)
	List(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error)
	Update(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error)
	Delete(ctx context.Context, id uint) error
}

type catalogAdapter struct {
	container mono.ServiceContainer
}

// NewCatalogAdapter creates an adapter for catalog services.
func NewCatalogAdapter(container mono.ServiceContainer) CatalogPort {
	return &catalogAdapter{container: container}
}

func callService[Req any, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx, container, service, json.Marshal, json.Unmarshal, req, resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	return nil
}

func (a *catalogAdapter) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "create", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) Get(ctx context.Context, id uint) (*ProductResponse, error) {
	req := GetProductRequest{ID: id}
	var resp ProductResponse
	if err := callService(ctx, a.container, "get", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) List(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	var resp ListProductsResponse
	if err := callService(ctx, a.container, "list", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) Update(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := callService(ctx, a.container, "update", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *catalogAdapter) Delete(ctx context.Context, id uint) error {
	req := DeleteProductRequest{ID: id}
	var resp DeleteProductResponse
	return callService(ctx, a.container, "delete", &req, &resp)
}
