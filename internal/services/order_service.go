package services

import (
	"encoding/json"
	"fmt"
	"log"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/pkg/rabbitmq"
)

// PlaceOrderInput is what a buyer submits to place an order. Any
// client-supplied prices or totals are ignored; the service snapshots
// catalog prices and recomputes the total itself.
type PlaceOrderInput struct {
	Items         []models.OrderItem   `json:"items" validate:"required,min=1,dive"`
	Shipping      models.ShippingInfo  `json:"shipping" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=card paypal upi cod"`
}

// SellerOrderFeed is the seller order listing plus the summed per-view
// revenue for the seller dashboard.
type SellerOrderFeed struct {
	Orders       []SellerOrderView `json:"orders"`
	TotalRevenue float64           `json:"total_revenue"`
}

// AdminOrderFeed is the platform-wide order listing plus aggregate stats.
type AdminOrderFeed struct {
	Orders []models.Order `json:"orders"`
	Stats  OrderStats     `json:"stats"`
}

// OrderService handles business logic related to orders: placement, the
// lifecycle state machine, and role-scoped listings.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client // nil when eventing is disabled (tests)
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// PlaceOrder creates a new order for the calling buyer. Prices are
// snapshotted from the catalog, the total is computed server-side, and each
// referenced item's stock is decremented atomically at the storage layer,
// clamped at zero. The decrement is not transactional with order creation;
// a failed decrement surfaces as a failure of the whole operation.
func (s *OrderService) PlaceOrder(caller Caller, input PlaceOrderInput) (*models.Order, error) {
	if !Allow(caller, ActionPlaceOrder, "") {
		return nil, fmt.Errorf("%w: only buyers place orders", ErrDenied)
	}

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %s quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("unsupported payment method %q", input.PaymentMethod)
	}

	// Snapshot catalog prices and compute the total. Client-supplied prices
	// and totals are discarded.
	var totalAmount float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		totalAmount += product.Price * float64(item.Quantity)
	}

	order := &models.Order{
		BuyerID:     caller.ID,
		Items:       items,
		Shipping:    input.Shipping,
		TotalAmount: totalAmount,
		Status:      models.StatusProcessing,
		Payment: models.Payment{
			Method: input.PaymentMethod,
			Status: models.PaymentPending,
			Amount: totalAmount,
		},
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Quantity side effect of entering Processing. Not reversed on
	// cancellation; restocking goes through the product update path.
	for _, item := range items {
		if _, err := s.productRepo.DecrementStock(item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("order %s created but stock decrement failed: %w", order.ID, err)
		}
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"status":   order.Status,
		"total":    order.TotalAmount,
	})

	return order, nil
}

// GetOrder returns a single order to its buyer or to an admin. Everyone
// else gets a deny that reveals nothing about whether the order exists.
func (s *OrderService) GetOrder(caller Caller, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if caller.Role != models.RoleAdmin {
			return nil, ErrDenied
		}
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if !Allow(caller, ActionViewOrder, order.BuyerID) {
		return nil, ErrDenied
	}
	return order, nil
}

// Transition moves an order through the lifecycle state machine. Admins may
// transition any order; a seller only orders touching their own catalog.
// The payment sub-state follows the documented completion policy.
func (s *OrderService) Transition(caller Caller, orderID string, requested models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(requested) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if caller.Role != models.RoleAdmin {
			return nil, ErrDenied
		}
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	if caller.Role != models.RoleAdmin {
		if caller.Role != models.RoleSeller {
			return nil, ErrDenied
		}
		touches, err := s.orderTouchesSeller(order, caller.ID)
		if err != nil {
			return nil, err
		}
		if !touches {
			return nil, ErrDenied
		}
	}

	if !models.CanTransition(order.Status, requested) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, requested)
	}

	order.Status = requested
	order.Payment.Status = models.PaymentStatusAfter(order.Payment, requested)

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
		"payment":  order.Payment.Status,
	})

	return order, nil
}

// ListForBuyer returns the calling buyer's own orders. The visibility
// predicate here is the trivial one: order.BuyerID == caller.ID, pushed
// down to the repository query.
func (s *OrderService) ListForBuyer(caller Caller) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByBuyerID(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer %s: %w", caller.ID, err)
	}
	return orders, nil
}

// ListForSeller derives the calling seller's scoped view of the global
// order set: only line items referencing the seller's catalog, with totals
// recomputed over that subset.
func (s *OrderService) ListForSeller(caller Caller) (*SellerOrderFeed, error) {
	if !Allow(caller, ActionViewSellerFeed, "") {
		return nil, ErrDenied
	}

	products, err := s.productRepo.GetBySellerID(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog for seller %s: %w", caller.ID, err)
	}
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	views := ScopeToSeller(orders, CatalogIDSet(products))
	return &SellerOrderFeed{
		Orders:       views,
		TotalRevenue: SellerRevenue(views),
	}, nil
}

// ListAll returns every order plus aggregate statistics. Admin only.
func (s *OrderService) ListAll(caller Caller) (*AdminOrderFeed, error) {
	if !Allow(caller, ActionViewAllOrders, "") {
		return nil, ErrDenied
	}

	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return &AdminOrderFeed{
		Orders: orders,
		Stats:  Summarize(orders),
	}, nil
}

// orderTouchesSeller reports whether any line item references the seller's
// catalog.
func (s *OrderService) orderTouchesSeller(order *models.Order, sellerID string) (bool, error) {
	products, err := s.productRepo.GetBySellerID(sellerID)
	if err != nil {
		return false, fmt.Errorf("failed to load catalog for seller %s: %w", sellerID, err)
	}
	catalog := CatalogIDSet(products)
	for _, item := range order.Items {
		if _, ok := catalog[item.ProductID]; ok {
			return true, nil
		}
	}
	return false, nil
}

// publishEvent sends an order event to the message queue. Publishing is
// best effort: a broker failure is logged, never surfaced to the buyer.
func (s *OrderService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
