package repositories

import "agromart/internal/models"

// ProductRepository defines the interface for catalog data access.
//
// DecrementStock must be atomic at the storage layer (clamp-and-set, never
// read-then-write) so concurrent order placement against the same item
// cannot lose updates. It reports the stock remaining after the decrement.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySellerID(sellerID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(id string, quantity int) (remaining int, err error)
}
