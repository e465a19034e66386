package handlers

import (
	"log"

	"agromart/internal/middleware"
	"agromart/internal/models"
	"agromart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Get("/seller", h.HandleListSellerOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandlePlaceOrder places a new order for the calling buyer.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.PlaceOrder(caller, input)
	if err != nil {
		log.Printf("Error placing order for buyer %s: %v", caller.ID, err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders dispatches the order listing on the caller's role:
// buyers get their own orders, admins get everything plus aggregate stats.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	switch caller.Role {
	case models.RoleAdmin:
		feed, err := h.service.ListAll(caller)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(feed)
	case models.RoleBuyer:
		orders, err := h.service.ListForBuyer(caller)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(orders)
	default:
		return respondError(c, services.ErrDenied)
	}
}

// HandleListSellerOrders returns the calling seller's scoped order views.
func (h *OrderHandler) HandleListSellerOrders(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	feed, err := h.service.ListForSeller(caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// HandleGetOrderByID retrieves a single order.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	order, err := h.service.GetOrder(caller, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// StatusUpdateRequest is the request body for order status transitions.
type StatusUpdateRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus runs the lifecycle state machine on an order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		return respondError(c, services.ErrUnauthenticated)
	}

	var req StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.Transition(caller, c.Params("id"), req.Status)
	if err != nil {
		log.Printf("Error updating status of order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.JSON(order)
}
