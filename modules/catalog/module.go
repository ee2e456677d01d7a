package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"

	"github.com/example/coffee-shop/modules/cache"
)

// Module provides product catalog services over the shared database.
type Module struct {
	db      *gorm.DB
	repo    *Repository
	images  *ImageStore
	service *Service
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new catalog module over the shared database.
func NewModule(db *gorm.DB) *Module {
	return &Module{db: db}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetCache wires the read-through cache. Called after app start once
// the cache module is connected.
func (m *Module) SetCache(c *cache.Cache) {
	m.service.SetCache(c)
}

// Service exposes the catalog service to sibling modules that share
// the database transaction scope.
func (m *Module) Service() *Service {
	return m.service
}

// Repository exposes product storage for the checkout engine.
func (m *Module) Repository() *Repository {
	return m.repo
}

// Start initializes storage, optionally seeds a demo catalog.
func (m *Module) Start(_ context.Context) error {
	imageDir := os.Getenv("PRODUCT_IMAGE_DIR")
	if imageDir == "" {
		imageDir = "./images"
	}
	images, err := NewImageStore(imageDir)
	if err != nil {
		return err
	}

	m.images = images
	m.repo = NewRepository(m.db)
	m.service = NewService(m.repo, m.images, nil)

	if os.Getenv("SEED_PRODUCTS") == "true" {
		created, err := Seed(m.repo)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		if created > 0 {
			log.Printf("[catalog] Seeded %d sample products", created)
		}
	}

	log.Printf("[catalog] Module started (images: %s)", imageDir)
	return nil
}

// Stop is a no-op; the shared database is closed by main.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[catalog] Module stopped")
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
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"images": m.images.Dir()},
	}
}

// RegisterServices registers catalog request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "update", json.Unmarshal, json.Marshal, m.updateProduct,
	); err != nil {
		return fmt.Errorf("failed to register update service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	log.Printf("[catalog] Registered services: services.catalog.{create,get,list,update,delete}")
	return nil
}

// createProduct handles the catalog.create service request.
func (m *Module) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	product, err := m.service.Create(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// getProduct handles the catalog.get service request.
func (m *Module) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.ID == 0 {
		return ProductResponse{}, fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	product, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// listProducts handles the catalog.list service request.
func (m *Module) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	products, total, err := m.service.List(ctx, SearchParams{
		Category: req.Category,
		Mode:     req.Mode,
		Keyword:  req.Keyword,
		DateType: req.DateType,
		Page:     req.Page,
		Size:     req.Size,
	})
	if err != nil {
		return ListProductsResponse{}, err
	}

	resp := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    total,
		Page:     req.Page,
		Size:     req.Size,
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return resp, nil
}

// updateProduct handles the catalog.update service request.
func (m *Module) updateProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.ID == 0 {
		return ProductResponse{}, fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	product, err := m.service.Update(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// deleteProduct handles the catalog.delete service request.
func (m *Module) deleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	if req.ID == 0 {
		return DeleteProductResponse{}, fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteProductResponse{Deleted: false, ID: req.ID}, err
	}
	return DeleteProductResponse{Deleted: true, ID: req.ID}, nil
}
