package services_test

import (
	"testing"

	"agromart/internal/models"
	"agromart/internal/repositories"
	"agromart/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestProductService_CreateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	svc := services.NewProductService(repo)

	seller := services.Caller{ID: "seller-x", Role: models.RoleSeller}
	product := &models.Product{Name: "Wheat seed", Price: 12.5, Stock: 40}

	err := svc.CreateProduct(seller, product)
	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	// Ownership comes from the caller, never the request body.
	assert.Equal(t, "seller-x", product.SellerID)
	assert.Equal(t, models.InStock, product.Availability)

	// Buyers cannot create catalog items.
	buyer := services.Caller{ID: "buyer-1", Role: models.RoleBuyer}
	err = svc.CreateProduct(buyer, &models.Product{Name: "Sneaky item", Price: 1})
	assert.ErrorIs(t, err, services.ErrDenied)
}

func TestProductService_UpdateProduct_Ownership(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	svc := services.NewProductService(repo)

	seller := services.Caller{ID: "seller-x", Role: models.RoleSeller}
	product := &models.Product{Name: "Wheat seed", Price: 12.5, Stock: 0}
	assert.NoError(t, svc.CreateProduct(seller, product))
	assert.Equal(t, models.OutOfStock, product.Availability)

	// Restock: availability must recover with the stock edit.
	product.Stock = 25
	assert.NoError(t, svc.UpdateProduct(seller, product))
	restocked, err := svc.GetProductByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 25, restocked.Stock)
	assert.Equal(t, models.InStock, restocked.Availability)

	// Another seller is denied; an admin is not.
	intruder := services.Caller{ID: "seller-y", Role: models.RoleSeller}
	assert.ErrorIs(t, svc.UpdateProduct(intruder, product), services.ErrDenied)

	admin := services.Caller{ID: "admin-1", Role: models.RoleAdmin}
	product.Price = 13.0
	assert.NoError(t, svc.UpdateProduct(admin, product))

	// Ownership survives edits by anyone.
	edited, err := svc.GetProductByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "seller-x", edited.SellerID)
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	svc := services.NewProductService(repo)

	seller := services.Caller{ID: "seller-x", Role: models.RoleSeller}
	product := &models.Product{Name: "Wheat seed", Price: 12.5, Stock: 10}
	assert.NoError(t, svc.CreateProduct(seller, product))

	intruder := services.Caller{ID: "seller-y", Role: models.RoleSeller}
	assert.ErrorIs(t, svc.DeleteProduct(intruder, product.ID), services.ErrDenied)

	assert.NoError(t, svc.DeleteProduct(seller, product.ID))
	_, err := svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Deleting something absent: admins learn it is missing, sellers do not.
	admin := services.Caller{ID: "admin-1", Role: models.RoleAdmin}
	assert.ErrorIs(t, svc.DeleteProduct(admin, "no-such-product"), services.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(seller, "no-such-product"), services.ErrDenied)
}

func TestProductService_GetSellerCatalog(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	svc := services.NewProductService(repo)

	sellerX := services.Caller{ID: "seller-x", Role: models.RoleSeller}
	sellerY := services.Caller{ID: "seller-y", Role: models.RoleSeller}
	assert.NoError(t, svc.CreateProduct(sellerX, &models.Product{Name: "Wheat seed", Price: 12.5, Stock: 10}))
	assert.NoError(t, svc.CreateProduct(sellerY, &models.Product{Name: "Corn seed", Price: 9.0, Stock: 10}))

	catalog, err := svc.GetSellerCatalog(sellerX)
	assert.NoError(t, err)
	assert.Len(t, catalog, 1)
	assert.Equal(t, "Wheat seed", catalog[0].Name)

	_, err = svc.GetSellerCatalog(services.Caller{ID: "buyer-1", Role: models.RoleBuyer})
	assert.ErrorIs(t, err, services.ErrDenied)
}
