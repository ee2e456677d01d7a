package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	accountmod "github.com/example/coffee-shop/modules/account"
	apimod "github.com/example/coffee-shop/modules/api"
	cachemod "github.com/example/coffee-shop/modules/cache"
	cartmod "github.com/example/coffee-shop/modules/cart"
	catalogmod "github.com/example/coffee-shop/modules/catalog"
	notificationmod "github.com/example/coffee-shop/modules/notification"
	ordermod "github.com/example/coffee-shop/modules/order"
	"github.com/example/coffee-shop/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	dbPath := getEnv("DB_PATH", "./coffee-shop.db")
	httpPort := getEnv("HTTP_PORT", "8080")
	redisAddr := getEnv("REDIS_ADDR", "")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "catalog:")

	log.Println("=== Coffee Shop ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %s", httpPort)
	if redisAddr != "" {
		log.Printf("Redis: %s (TTL %s, prefix %q)", redisAddr, cacheTTL, cachePrefix)
	}

	// All domain modules share one database so checkout can span
	// products, carts, and orders in a single transaction.
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	accountModule := accountmod.NewModule(db)
	catalogModule := catalogmod.NewModule(db)
	cartModule := cartmod.NewModule(db)
	orderModule := ordermod.NewModule(db)
	notificationModule := notificationmod.NewModule()
	apiModule := apimod.NewModule(httpPort)

	// The catalog cache is optional; without Redis the catalog serves
	// straight from the database.
	var cacheModule *cachemod.Module
	if redisAddr != "" {
		cacheModule = cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(accountModule)
	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(orderModule)
	app.Register(notificationModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire up dependencies after start
	if cacheModule != nil {
		catalogModule.SetCache(cacheModule.GetCache())
	}
	orderModule.SetCatalogService(catalogModule.Service())

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%s", httpPort)
	log.Println("Press Ctrl+C to shutdown gracefully")

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
			"database": func(_ context.Context) error {
				return store.Close(db)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
