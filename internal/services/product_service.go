package services

import (
	"fmt"

	"agromart/internal/models"
	"agromart/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the full catalog. Readable by any caller.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single catalog item.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return product, nil
}

// GetSellerCatalog retrieves the calling seller's own items.
func (s *ProductService) GetSellerCatalog(caller Caller) ([]models.Product, error) {
	if !Allow(caller, ActionManageCatalog, "") {
		return nil, ErrDenied
	}
	return s.repo.GetBySellerID(caller.ID)
}

// CreateProduct creates a catalog item owned by the calling seller.
func (s *ProductService) CreateProduct(caller Caller, product *models.Product) error {
	if !Allow(caller, ActionManageCatalog, "") {
		return fmt.Errorf("%w: only sellers manage the catalog", ErrDenied)
	}
	product.SellerID = caller.ID
	return s.repo.Create(product)
}

// UpdateProduct updates an item; allowed for the owning seller or an admin.
// Stock edits recompute the availability flag, so a restock returns the
// item to in_stock without a separate write.
func (s *ProductService) UpdateProduct(caller Caller, product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		if caller.Role != models.RoleAdmin {
			return ErrDenied
		}
		return fmt.Errorf("%w: product %s", ErrNotFound, product.ID)
	}
	if !Allow(caller, ActionEditProduct, existing.SellerID) {
		return ErrDenied
	}
	product.SellerID = existing.SellerID // ownership never changes on edit
	return s.repo.Update(product)
}

// DeleteProduct deletes an item; allowed for the owning seller or an admin.
func (s *ProductService) DeleteProduct(caller Caller, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		if caller.Role != models.RoleAdmin {
			return ErrDenied
		}
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if !Allow(caller, ActionEditProduct, existing.SellerID) {
		return ErrDenied
	}
	return s.repo.Delete(id)
}
