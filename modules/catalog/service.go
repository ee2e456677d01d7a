package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	domain "github.com/example/coffee-shop/domain/product"
	"github.com/example/coffee-shop/modules/cache"
)

// ErrInvalidProduct is returned when a product payload fails validation.
var ErrInvalidProduct = errors.New("invalid product")

// Service implements catalog operations with an optional read-through
// cache. All content and stock mutations invalidate the cached entries.
type Service struct {
	repo   *Repository
	images *ImageStore
	cache  *cache.Cache
	group  singleflight.Group
}

// nowDate is the registration date stamp, truncated to the day.
func nowDate() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// NewService creates a catalog service. cache may be nil, in which case
// reads go straight to the repository.
func NewService(repo *Repository, images *ImageStore, c *cache.Cache) *Service {
	return &Service{repo: repo, images: images, cache: c}
}

// SetCache attaches a cache after construction (wired post-start).
func (s *Service) SetCache(c *cache.Cache) {
	s.cache = c
}

// Create registers a new product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*domain.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidProduct)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", ErrInvalidProduct)
	}
	category := req.Category
	if category == "" {
		category = domain.CategoryAll
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, req.Category)
	}

	image := req.Image
	if IsDataURL(image) {
		name, err := s.images.SaveDataURL(image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
		}
		image = name
	}

	product := &domain.Product{
		Name:        req.Name,
		Category:    category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       image,
		InputDate:   nowDate(),
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	return product, nil
}

// Get returns a product by id, via the cache when one is attached.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache == nil {
		return s.repo.FindByID(id)
	}

	key := fmt.Sprintf("id:%d", id)
	var cached domain.Product
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[catalog] cache get failed for %s: %v", key, err)
	}
	if hit {
		return &cached, nil
	}

	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, product); err != nil {
		log.Printf("[catalog] cache set failed for %s: %v", key, err)
	}
	return product, nil
}

// List searches the catalog. Identical concurrent queries collapse into
// one repository load via singleflight.
func (s *Service) List(ctx context.Context, params SearchParams) ([]domain.Product, int64, error) {
	type listResult struct {
		products []domain.Product
		total    int64
	}

	key := fmt.Sprintf("list:%s:%s:%s:%s:%d:%d",
		params.Category, params.Mode, params.Keyword, params.DateType, params.Page, params.Size)

	if s.cache != nil {
		var cached ListProductsResponse
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[catalog] cache get failed for %s: %v", key, err)
		}
		if hit {
			products := make([]domain.Product, 0, len(cached.Products))
			for _, p := range cached.Products {
				products = append(products, domain.Product{
					ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price,
					Stock: p.Stock, Description: p.Description, Image: p.Image, InputDate: p.InputDate,
				})
			}
			return products, cached.Total, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, total, err := s.repo.Search(params)
		if err != nil {
			return nil, err
		}
		return listResult{products: products, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	result := v.(listResult)

	if s.cache != nil {
		resp := ListProductsResponse{
			Products: make([]ProductResponse, 0, len(result.products)),
			Total:    result.total,
			Page:     params.Page,
			Size:     params.Size,
		}
		for _, p := range result.products {
			resp.Products = append(resp.Products, toProductResponse(&p))
		}
		if err := s.cache.Set(ctx, key, resp); err != nil {
			log.Printf("[catalog] cache set failed for %s: %v", key, err)
		}
	}
	return result.products, result.total, nil
}

// Update overwrites the provided fields of an existing product. A new
// image upload replaces and removes the previous file.
func (s *Service) Update(ctx context.Context, req UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidProduct)
		}
		product.Name = *req.Name
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrInvalidProduct)
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be non-negative", ErrInvalidProduct)
		}
		product.Stock = *req.Stock
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Image != nil && IsDataURL(*req.Image) {
		name, err := s.images.SaveDataURL(*req.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
		}
		if err := s.images.Remove(product.Image); err != nil {
			log.Printf("[catalog] failed to remove old image %s: %v", product.Image, err)
		}
		product.Image = name
	}

	if err := s.repo.Save(product); err != nil {
		return nil, err
	}

	s.Invalidate(ctx, product.ID)
	return product, nil
}

// Delete removes a product and its stored image.
func (s *Service) Delete(ctx context.Context, id uint) error {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := s.images.Remove(product.Image); err != nil {
		log.Printf("[catalog] failed to remove image %s: %v", product.Image, err)
	}

	s.Invalidate(ctx, id)
	return nil
}

// Invalidate drops the cached entries for the given products and all
// cached listings. The checkout engine calls this after committing a
// stock change.
func (s *Service) Invalidate(ctx context.Context, ids ...uint) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		if err := s.cache.Delete(ctx, fmt.Sprintf("id:%d", id)); err != nil {
			log.Printf("[catalog] cache delete failed for product %d: %v", id, err)
		}
	}
	s.invalidateLists(ctx)
}

func (s *Service) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "list:*"); err != nil {
		log.Printf("[catalog] cache list invalidation failed: %v", err)
	}
}

// toProductResponse converts a Product entity to a ProductResponse.
func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Image:       p.Image,
		InputDate:   p.InputDate,
	}
}
