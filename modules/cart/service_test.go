package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/coffee-shop/domain/cart"
	productdomain "github.com/example/coffee-shop/domain/product"
	"github.com/example/coffee-shop/modules/catalog"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&productdomain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestService(db *gorm.DB) *Service {
	return NewService(db, NewRepository(db), catalog.NewRepository(db))
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, stock int) *productdomain.Product {
	t.Helper()
	p := &productdomain.Product{
		Name:      name,
		Category:  productdomain.CategoryBread,
		Price:     3200,
		Stock:     stock,
		InputDate: time.Now(),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return p
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates cart and line on first add", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)

		item, err := svc.AddItem(ctx, 1, croissant.ID, 2)
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if item.Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", item.Quantity)
		}

		var carts int64
		db.Model(&domain.Cart{}).Where("member_id = ?", 1).Count(&carts)
		if carts != 1 {
			t.Errorf("expected 1 cart, got %d", carts)
		}
	})

	t.Run("second add for same product merges quantities", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)

		first, err := svc.AddItem(ctx, 1, croissant.ID, 2)
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		second, err := svc.AddItem(ctx, 1, croissant.ID, 3)
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("expected merge into line %d, got new line %d", first.ID, second.ID)
		}
		if second.Quantity != 5 {
			t.Errorf("expected merged quantity 5, got %d", second.Quantity)
		}

		var lines int64
		db.Model(&domain.CartItem{}).Count(&lines)
		if lines != 1 {
			t.Errorf("expected 1 cart line, got %d", lines)
		}
	})

	t.Run("distinct products get distinct lines", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)
		espresso := createTestProduct(t, db, "Espresso", 50)

		if _, err := svc.AddItem(ctx, 1, croissant.ID, 1); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if _, err := svc.AddItem(ctx, 1, espresso.ID, 1); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		var lines int64
		db.Model(&domain.CartItem{}).Count(&lines)
		if lines != 2 {
			t.Errorf("expected 2 cart lines, got %d", lines)
		}
	})

	t.Run("adding does not touch stock", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)

		// More than is in stock; the cart does not care.
		if _, err := svc.AddItem(ctx, 1, croissant.ID, 100); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		var p productdomain.Product
		if err := db.First(&p, croissant.ID).Error; err != nil {
			t.Fatalf("failed to load product: %v", err)
		}
		if p.Stock != 20 {
			t.Errorf("expected stock unchanged at 20, got %d", p.Stock)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)

		if _, err := svc.AddItem(ctx, 0, croissant.ID, 1); !errors.Is(err, ErrInvalidMemberID) {
			t.Errorf("expected ErrInvalidMemberID, got %v", err)
		}
		if _, err := svc.AddItem(ctx, 1, croissant.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
		if _, err := svc.AddItem(ctx, 1, 999, 1); !errors.Is(err, catalog.ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestService_SetItemQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites quantity", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)

		item, err := svc.AddItem(ctx, 1, croissant.ID, 2)
		if err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		updated, err := svc.SetItemQuantity(ctx, item.ID, 7)
		if err != nil {
			t.Fatalf("SetItemQuantity() error = %v", err)
		}
		if updated.Quantity != 7 {
			t.Errorf("expected quantity 7, got %d", updated.Quantity)
		}
	})

	t.Run("rejects quantity below 1", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)

		if _, err := svc.SetItemQuantity(ctx, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)

		if _, err := svc.SetItemQuantity(ctx, 999, 3); !errors.Is(err, ErrCartItemNotFound) {
			t.Errorf("expected ErrCartItemNotFound, got %v", err)
		}
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	db := setupTestDB(t)
	svc := newTestService(db)
	croissant := createTestProduct(t, db, "Croissant", 20)

	item, err := svc.AddItem(ctx, 1, croissant.ID, 2)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if err := svc.RemoveItem(ctx, item.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	var lines int64
	db.Model(&domain.CartItem{}).Count(&lines)
	if lines != 0 {
		t.Errorf("expected 0 cart lines, got %d", lines)
	}

	// Removing again is not an error.
	if err := svc.RemoveItem(ctx, item.ID); err != nil {
		t.Errorf("expected idempotent remove, got %v", err)
	}
}

func TestService_ListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("member without cart gets empty list", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)

		details, err := svc.ListItems(ctx, 42)
		if err != nil {
			t.Fatalf("ListItems() error = %v", err)
		}
		if len(details) != 0 {
			t.Errorf("expected empty list, got %d items", len(details))
		}
	})

	t.Run("joins product details", func(t *testing.T) {
		db := setupTestDB(t)
		svc := newTestService(db)
		croissant := createTestProduct(t, db, "Croissant", 20)
		espresso := createTestProduct(t, db, "Espresso", 50)

		if _, err := svc.AddItem(ctx, 1, croissant.ID, 2); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
		if _, err := svc.AddItem(ctx, 1, espresso.ID, 1); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}

		details, err := svc.ListItems(ctx, 1)
		if err != nil {
			t.Fatalf("ListItems() error = %v", err)
		}
		if len(details) != 2 {
			t.Fatalf("expected 2 items, got %d", len(details))
		}

		byName := map[string]ItemDetail{}
		for _, d := range details {
			byName[d.Name] = d
		}
		if d, ok := byName["Croissant"]; !ok || d.Quantity != 2 || d.Price != 3200 {
			t.Errorf("unexpected croissant detail: %+v", d)
		}
		if d, ok := byName["Espresso"]; !ok || d.Stock != 50 {
			t.Errorf("unexpected espresso detail: %+v", d)
		}
	})
}
