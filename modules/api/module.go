package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/coffee-shop/modules/account"
	"github.com/example/coffee-shop/modules/cart"
	"github.com/example/coffee-shop/modules/catalog"
	"github.com/example/coffee-shop/modules/order"
)

// Module is the HTTP API module. It speaks to the domain modules only
// through their service-container ports.
type Module struct {
	app      *fiber.App
	port     string
	imageDir string

	accounts account.AccountPort
	products catalog.CatalogPort
	carts    cart.CartPort
	orders   order.OrderPort
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module listening on the given port.
func NewModule(port string) *Module {
	return &Module{port: port}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"account", "catalog", "cart", "order"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "account":
		m.accounts = account.NewAccountAdapter(container)
	case "catalog":
		m.products = catalog.NewCatalogAdapter(container)
	case "cart":
		m.carts = cart.NewCartAdapter(container)
	case "order":
		m.orders = order.NewOrderAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.accounts == nil || m.products == nil || m.carts == nil || m.orders == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.accounts, m.products, m.carts, m.orders)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// Stored product images are served as static files.
	m.imageDir = os.Getenv("PRODUCT_IMAGE_DIR")
	if m.imageDir == "" {
		m.imageDir = "./images"
	}
	m.app.Static("/images", m.imageDir)

	// Public routes
	member := m.app.Group("/member")
	member.Post("/signup", handlers.Signup)
	member.Post("/login", handlers.Login)

	product := m.app.Group("/product")
	product.Get("/list", handlers.ListProducts)
	product.Get("/:productId", handlers.GetProduct)

	// Administrator catalog management
	adminProduct := product.Group("", AuthMiddleware(m.accounts), AdminOnly())
	adminProduct.Post("", handlers.CreateProduct)
	adminProduct.Put("/:productId", handlers.UpdateProduct)
	adminProduct.Delete("/:productId", handlers.DeleteProduct)

	// Authenticated cart routes
	cartRoutes := m.app.Group("/cart", AuthMiddleware(m.accounts))
	cartRoutes.Post("/insert", handlers.AddCartItem)
	cartRoutes.Get("/list/:memberId", handlers.ListCart)
	cartRoutes.Patch("/edit/:cartProductId", handlers.EditCartItem)
	cartRoutes.Delete("/delete/:cartProductId", handlers.RemoveCartItem)

	// Authenticated order routes
	orderRoutes := m.app.Group("/order", AuthMiddleware(m.accounts))
	orderRoutes.Post("", handlers.PlaceOrder)
	orderRoutes.Get("/list", handlers.ListOrders)
	orderRoutes.Put("/update/status/:orderId", handlers.UpdateOrderStatus)
	orderRoutes.Delete("/delete/:orderId", handlers.CancelOrder)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "error",
		Message: message,
	})
}
