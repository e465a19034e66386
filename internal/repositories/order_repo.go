package repositories

import "agromart/internal/models"

// OrderRepository defines the interface for order data access. List reads
// return orders newest-first; orders are never deleted, cancellation is a
// status change.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByBuyerID(buyerID string) ([]models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
}
