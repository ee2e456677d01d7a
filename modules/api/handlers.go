package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	memberdomain "github.com/example/coffee-shop/domain/member"
	orderdomain "github.com/example/coffee-shop/domain/order"
	"github.com/example/coffee-shop/modules/account"
	"github.com/example/coffee-shop/modules/cart"
	"github.com/example/coffee-shop/modules/catalog"
	"github.com/example/coffee-shop/modules/order"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	accounts account.AccountPort
	products catalog.CatalogPort
	carts    cart.CartPort
	orders   order.OrderPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(accounts account.AccountPort, products catalog.CatalogPort, carts cart.CartPort, orders order.OrderPort) *Handlers {
	return &Handlers{
		accounts: accounts,
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// currentClaims returns the authenticated member's claims, set by
// AuthMiddleware.
func currentClaims(c *fiber.Ctx) *memberdomain.Claims {
	claims, _ := c.Locals(MemberContextKey).(*memberdomain.Claims)
	return claims
}

// allowSelfOrAdmin reports whether the caller may touch the given
// member's data, writing the rejection response when not.
func allowSelfOrAdmin(c *fiber.Ctx, memberID uint) bool {
	claims := currentClaims(c)
	if claims == nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Member not authenticated",
		})
		return false
	}
	if claims.Role != memberdomain.RoleAdmin && claims.MemberID != memberID {
		_ = c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Cannot access another member's data",
		})
		return false
	}
	return true
}

// Signup handles member registration.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := h.accounts.Signup(c.UserContext(), account.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles member login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := h.accounts.Login(c.UserContext(), account.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// AddCartItem adds a product to the member's cart, merging quantities
// when the product is already there.
func (h *Handlers) AddCartItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.MemberID == 0 {
		if claims := currentClaims(c); claims != nil {
			req.MemberID = claims.MemberID
		}
	}
	if !allowSelfOrAdmin(c, req.MemberID) {
		return nil
	}

	resp, err := h.carts.AddItem(c.UserContext(), cart.AddItemRequest{
		MemberID:  req.MemberID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListCart returns the member's cart lines with product details.
func (h *Handlers) ListCart(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("memberId")
	if err != nil || memberID < 1 {
		return badRequest(c, "Invalid member id")
	}
	if !allowSelfOrAdmin(c, uint(memberID)) {
		return nil
	}

	resp, err := h.carts.ListItems(c.UserContext(), uint(memberID))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// EditCartItem overwrites a cart line's quantity.
func (h *Handlers) EditCartItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("cartProductId")
	if err != nil || itemID < 1 {
		return badRequest(c, "Invalid cart item id")
	}
	var req EditCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.carts.EditItem(c.UserContext(), cart.EditItemRequest{
		ItemID:   uint(itemID),
		Quantity: req.Quantity,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// RemoveCartItem deletes a cart line. Removing a line that is already
// gone succeeds.
func (h *Handlers) RemoveCartItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("cartProductId")
	if err != nil || itemID < 1 {
		return badRequest(c, "Invalid cart item id")
	}

	if err := h.carts.RemoveItem(c.UserContext(), uint(itemID)); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PlaceOrder runs checkout for the authenticated member.
func (h *Handlers) PlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.MemberID == 0 {
		if claims := currentClaims(c); claims != nil {
			req.MemberID = claims.MemberID
		}
	}
	if !allowSelfOrAdmin(c, req.MemberID) {
		return nil
	}

	lines := make([]order.OrderLineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, order.OrderLineRequest{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			CartItemID: l.CartItemID,
		})
	}

	resp, err := h.orders.Place(c.UserContext(), order.PlaceOrderRequest{
		MemberID: req.MemberID,
		Status:   req.Status,
		Lines:    lines,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListOrders returns pending orders scoped by the caller's role:
// administrators see every member's, regular members only their own.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Member not authenticated",
		})
	}

	resp, err := h.orders.List(c.UserContext(), claims.MemberID, claimsRole(claims))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateOrderStatus overwrites an order's status. The new status rides
// in the status query parameter. CANCELED orders are terminal and
// reject any change.
func (h *Handlers) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID < 1 {
		return badRequest(c, "Invalid order id")
	}
	status := orderdomain.Status(c.Query("status"))
	if status == "" {
		return badRequest(c, "Missing status parameter")
	}

	if err := h.orders.UpdateStatus(c.UserContext(), uint(orderID), status); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"order_id": orderID,
		"status":   status,
	})
}

// CancelOrder restores stock and deletes the order.
func (h *Handlers) CancelOrder(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID < 1 {
		return badRequest(c, "Invalid order id")
	}

	if err := h.orders.Cancel(c.UserContext(), uint(orderID)); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListProducts returns a filtered, paged catalog listing.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	req := catalog.ListProductsRequest{
		Category: catalog.Category(c.Query("category")),
		Mode:     c.Query("mode"),
		Keyword:  c.Query("keyword"),
		DateType: c.Query("dateType"),
		Page:     c.QueryInt("page", 0),
		Size:     c.QueryInt("size", 0),
	}
	resp, err := h.products.List(c.UserContext(), req)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetProduct returns one product by id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID < 1 {
		return badRequest(c, "Invalid product id")
	}

	resp, err := h.products.Get(c.UserContext(), uint(productID))
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateProduct registers a product. Administrator only.
func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.products.Create(c.UserContext(), catalog.CreateProductRequest{
		Name:        req.Name,
		Category:    catalog.Category(req.Category),
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateProduct changes a product's fields. Administrator only.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID < 1 {
		return badRequest(c, "Invalid product id")
	}
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	update := catalog.UpdateProductRequest{
		ID:          uint(productID),
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Category != nil {
		cat := catalog.Category(*req.Category)
		update.Category = &cat
	}

	resp, err := h.products.Update(c.UserContext(), update)
	if err != nil {
		return h.handleServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteProduct removes a product. Administrator only.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("productId")
	if err != nil || productID < 1 {
		return badRequest(c, "Invalid product id")
	}

	if err := h.products.Delete(c.UserContext(), uint(productID)); err != nil {
		return h.handleServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// handleServiceError maps service errors to HTTP responses. Errors
// cross the service bus as strings, so mapping matches known messages
// rather than error values.
func (h *Handlers) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "member with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Member with this email already exists",
		})
	case strings.Contains(errStr, "insufficient stock"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Insufficient stock for one or more products",
		})
	case strings.Contains(errStr, "canceled order cannot change status"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Canceled orders cannot change status",
		})
	case strings.Contains(errStr, "product not found"),
		strings.Contains(errStr, "member not found"),
		strings.Contains(errStr, "cart item not found"),
		strings.Contains(errStr, "order not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Requested resource not found",
		})
	case strings.Contains(errStr, "invalid product"),
		strings.Contains(errStr, "invalid order"),
		strings.Contains(errStr, "invalid signup"),
		strings.Contains(errStr, "invalid image payload"),
		strings.Contains(errStr, "invalid member id"),
		strings.Contains(errStr, "quantity must be at least 1"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: errStr,
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
