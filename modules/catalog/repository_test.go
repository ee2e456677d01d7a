package catalog

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/coffee-shop/domain/product"
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

	if err := db.AutoMigrate(&domain.Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createProduct(t *testing.T, db *gorm.DB, p domain.Product) *domain.Product {
	t.Helper()
	if p.InputDate.IsZero() {
		p.InputDate = time.Now()
	}
	if p.Category == "" {
		p.Category = domain.CategoryBeverage
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return &p
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	created := createProduct(t, db, domain.Product{Name: "Americano", Price: 3500, Stock: 10})

	t.Run("existing product", func(t *testing.T) {
		found, err := repo.FindByID(created.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Name != "Americano" {
			t.Errorf("expected name Americano, got %q", found.Name)
		}
	})

	t.Run("non-existent product", func(t *testing.T) {
		_, err := repo.FindByID(999)
		if !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestRepository_AdjustStock(t *testing.T) {
	t.Run("decrement within stock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRepository(db)
		p := createProduct(t, db, domain.Product{Name: "Bagel", Price: 2800, Stock: 10})

		if err := repo.AdjustStock(p.ID, -4); err != nil {
			t.Fatalf("AdjustStock() error = %v", err)
		}
		found, _ := repo.FindByID(p.ID)
		if found.Stock != 6 {
			t.Errorf("expected stock 6, got %d", found.Stock)
		}
	})

	t.Run("decrement to exactly zero", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRepository(db)
		p := createProduct(t, db, domain.Product{Name: "Bagel", Price: 2800, Stock: 3})

		if err := repo.AdjustStock(p.ID, -3); err != nil {
			t.Fatalf("AdjustStock() error = %v", err)
		}
		found, _ := repo.FindByID(p.ID)
		if found.Stock != 0 {
			t.Errorf("expected stock 0, got %d", found.Stock)
		}
	})

	t.Run("decrement past zero is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRepository(db)
		p := createProduct(t, db, domain.Product{Name: "Bagel", Price: 2800, Stock: 3})

		err := repo.AdjustStock(p.ID, -4)
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}
		if stockErr.Stock != 3 || stockErr.Requested != 4 {
			t.Errorf("unexpected error detail: %+v", stockErr)
		}

		// Stock unchanged after the rejected update.
		found, _ := repo.FindByID(p.ID)
		if found.Stock != 3 {
			t.Errorf("expected stock unchanged at 3, got %d", found.Stock)
		}
	})

	t.Run("increment restores stock", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRepository(db)
		p := createProduct(t, db, domain.Product{Name: "Bagel", Price: 2800, Stock: 3})

		if err := repo.AdjustStock(p.ID, 5); err != nil {
			t.Fatalf("AdjustStock() error = %v", err)
		}
		found, _ := repo.FindByID(p.ID)
		if found.Stock != 8 {
			t.Errorf("expected stock 8, got %d", found.Stock)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRepository(db)

		if err := repo.AdjustStock(999, -1); !errors.Is(err, ErrProductNotFound) {
			t.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	old := time.Now().AddDate(0, -3, 0)
	createProduct(t, db, domain.Product{Name: "Sourdough Bread", Category: domain.CategoryBread, Price: 5000, Stock: 5, InputDate: old})
	createProduct(t, db, domain.Product{Name: "Americano", Category: domain.CategoryBeverage, Price: 3500, Stock: 20, Description: "classic espresso drink"})
	createProduct(t, db, domain.Product{Name: "Cafe Latte", Category: domain.CategoryBeverage, Price: 4200, Stock: 15, Description: "espresso with milk"})
	createProduct(t, db, domain.Product{Name: "Cheese Cake", Category: domain.CategoryCake, Price: 6800, Stock: 8})

	t.Run("no filters returns everything newest first", func(t *testing.T) {
		products, total, err := repo.Search(SearchParams{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 4 || len(products) != 4 {
			t.Fatalf("expected 4 products, got total=%d len=%d", total, len(products))
		}
		if products[0].Name != "Cheese Cake" {
			t.Errorf("expected newest product first, got %q", products[0].Name)
		}
	})

	t.Run("category ALL means no filter", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{Category: domain.CategoryAll})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 4 {
			t.Errorf("expected 4 products, got %d", total)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		products, total, err := repo.Search(SearchParams{Category: domain.CategoryBeverage})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 2 {
			t.Fatalf("expected 2 beverages, got %d", total)
		}
		for _, p := range products {
			if p.Category != domain.CategoryBeverage {
				t.Errorf("unexpected category %s for %q", p.Category, p.Name)
			}
		}
	})

	t.Run("keyword against name", func(t *testing.T) {
		products, total, err := repo.Search(SearchParams{Keyword: "Cafe"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 1 || products[0].Name != "Cafe Latte" {
			t.Errorf("expected only Cafe Latte, got total=%d %+v", total, products)
		}
	})

	t.Run("keyword against description", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{Mode: "description", Keyword: "espresso"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 2 {
			t.Errorf("expected 2 matches, got %d", total)
		}
	})

	t.Run("date range excludes old products", func(t *testing.T) {
		_, total, err := repo.Search(SearchParams{DateType: "1m"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 3 {
			t.Errorf("expected 3 recent products, got %d", total)
		}
	})

	t.Run("paging", func(t *testing.T) {
		page0, total, err := repo.Search(SearchParams{Page: 0, Size: 3})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if total != 4 || len(page0) != 3 {
			t.Fatalf("expected total 4 with 3 on first page, got total=%d len=%d", total, len(page0))
		}

		page1, _, err := repo.Search(SearchParams{Page: 1, Size: 3})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(page1) != 1 {
			t.Errorf("expected 1 product on second page, got %d", len(page1))
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	p := createProduct(t, db, domain.Product{Name: "Muffin", Price: 3000, Stock: 4})

	if err := repo.Delete(p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.FindByID(p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
	if err := repo.Delete(p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound for second delete, got %v", err)
	}
}
