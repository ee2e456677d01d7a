package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	memberdomain "github.com/example/coffee-shop/domain/member"
	orderdomain "github.com/example/coffee-shop/domain/order"
	"github.com/example/coffee-shop/modules/cart"
	"github.com/example/coffee-shop/modules/catalog"
	"github.com/example/coffee-shop/modules/order"
)

// stubCartPort implements cart.CartPort for route tests.
type stubCartPort struct {
	editItemFunc func(ctx context.Context, req cart.EditItemRequest) (*cart.EditItemResponse, error)
}

func (s *stubCartPort) AddItem(ctx context.Context, req cart.AddItemRequest) (*cart.AddItemResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCartPort) EditItem(ctx context.Context, req cart.EditItemRequest) (*cart.EditItemResponse, error) {
	if s.editItemFunc != nil {
		return s.editItemFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (s *stubCartPort) RemoveItem(ctx context.Context, itemID uint) error {
	return errors.New("not implemented")
}

func (s *stubCartPort) ListItems(ctx context.Context, memberID uint) (*cart.ListItemsResponse, error) {
	return nil, errors.New("not implemented")
}

// stubOrderPort implements order.OrderPort for route tests.
type stubOrderPort struct {
	updateStatusFunc func(ctx context.Context, orderID uint, status orderdomain.Status) error
}

func (s *stubOrderPort) Place(ctx context.Context, req order.PlaceOrderRequest) (*order.PlaceOrderResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderPort) List(ctx context.Context, memberID uint, role memberdomain.Role) (*order.ListOrdersResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderPort) UpdateStatus(ctx context.Context, orderID uint, status orderdomain.Status) error {
	if s.updateStatusFunc != nil {
		return s.updateStatusFunc(ctx, orderID, status)
	}
	return errors.New("not implemented")
}

func (s *stubOrderPort) Cancel(ctx context.Context, orderID uint) error {
	return errors.New("not implemented")
}

// stubCatalogPort implements catalog.CatalogPort for route tests.
type stubCatalogPort struct{}

func (s *stubCatalogPort) Create(ctx context.Context, req catalog.CreateProductRequest) (*catalog.ProductResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogPort) Get(ctx context.Context, id uint) (*catalog.ProductResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogPort) List(ctx context.Context, req catalog.ListProductsRequest) (*catalog.ListProductsResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogPort) Update(ctx context.Context, req catalog.UpdateProductRequest) (*catalog.ProductResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCatalogPort) Delete(ctx context.Context, id uint) error {
	return errors.New("not implemented")
}

// newTestApp wires the real route table over stub ports.
func newTestApp(carts cart.CartPort, orders order.OrderPort) *fiber.App {
	m := &Module{
		port:     "0",
		accounts: &mockAccountPort{validateTokenFunc: validClaims(memberdomain.RoleAdmin)},
		products: &stubCatalogPort{},
		carts:    carts,
		orders:   orders,
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	m.setupRoutes()
	return m.app
}

func TestRoutes_EditCartItem(t *testing.T) {
	t.Run("PATCH edits the line", func(t *testing.T) {
		var captured cart.EditItemRequest
		carts := &stubCartPort{
			editItemFunc: func(_ context.Context, req cart.EditItemRequest) (*cart.EditItemResponse, error) {
				captured = req
				return &cart.EditItemResponse{}, nil
			},
		}
		app := newTestApp(carts, &stubOrderPort{})

		req := httptest.NewRequest("PATCH", "/cart/edit/5", strings.NewReader(`{"quantity":3}`))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
		}
		if captured.ItemID != 5 || captured.Quantity != 3 {
			t.Errorf("unexpected edit request: %+v", captured)
		}
	})

	t.Run("PUT is not routed", func(t *testing.T) {
		app := newTestApp(&stubCartPort{}, &stubOrderPort{})

		req := httptest.NewRequest("PUT", "/cart/edit/5", strings.NewReader(`{"quantity":3}`))
		req.Header.Set("Authorization", "Bearer token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusMethodNotAllowed)
		}
	})
}

func TestRoutes_UpdateOrderStatus(t *testing.T) {
	t.Run("status rides in the query parameter", func(t *testing.T) {
		var capturedID uint
		var capturedStatus orderdomain.Status
		orders := &stubOrderPort{
			updateStatusFunc: func(_ context.Context, orderID uint, status orderdomain.Status) error {
				capturedID = orderID
				capturedStatus = status
				return nil
			},
		}
		app := newTestApp(&stubCartPort{}, orders)

		req := httptest.NewRequest("PUT", "/order/update/status/9?status=COMPLETED", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusOK)
		}
		if capturedID != 9 || capturedStatus != orderdomain.StatusCompleted {
			t.Errorf("unexpected call: id=%d status=%s", capturedID, capturedStatus)
		}
	})

	t.Run("missing status is rejected", func(t *testing.T) {
		app := newTestApp(&stubCartPort{}, &stubOrderPort{})

		req := httptest.NewRequest("PUT", "/order/update/status/9", nil)
		req.Header.Set("Authorization", "Bearer token")

		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %v, want %v", resp.StatusCode, http.StatusBadRequest)
		}
	})
}
