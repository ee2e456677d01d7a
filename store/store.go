// Package store opens the shared SQLite database and migrates the
// commerce schema. All modules that persist state share this one
// handle so the checkout engine can run cross-aggregate transactions.
package store

import (
	"fmt"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	cartdomain "github.com/example/coffee-shop/domain/cart"
	memberdomain "github.com/example/coffee-shop/domain/member"
	orderdomain "github.com/example/coffee-shop/domain/order"
	productdomain "github.com/example/coffee-shop/domain/product"
)

// Open connects to the SQLite database at path and runs migrations.
func Open(path string) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the commerce tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&productdomain.Product{},
		&memberdomain.Member{},
		&cartdomain.Cart{},
		&cartdomain.CartItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying sql.DB.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
