package services_test

import (
	"testing"
	"time"

	"agromart/internal/models"
	"agromart/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestScopeToSeller_MultiSellerOrder(t *testing.T) {
	// Buyer A orders one item from seller X and one from seller Y, each
	// priced 100 for qty 1. Global total is 200; each seller's view must
	// carry exactly their own line item totalling 100.
	order := models.Order{
		ID:      "order-1",
		BuyerID: "buyer-a",
		Items: []models.OrderItem{
			{ProductID: "prod-x", Quantity: 1, Price: 100},
			{ProductID: "prod-y", Quantity: 1, Price: 100},
		},
		TotalAmount: 200,
		Status:      models.StatusProcessing,
	}
	orders := []models.Order{order}

	viewsX := services.ScopeToSeller(orders, map[string]struct{}{"prod-x": {}})
	assert.Len(t, viewsX, 1)
	assert.Len(t, viewsX[0].Items, 1)
	assert.Equal(t, "prod-x", viewsX[0].Items[0].ProductID)
	assert.Equal(t, 100.0, viewsX[0].SellerTotal)

	viewsY := services.ScopeToSeller(orders, map[string]struct{}{"prod-y": {}})
	assert.Len(t, viewsY, 1)
	assert.Equal(t, 100.0, viewsY[0].SellerTotal)

	// An unrelated seller does not see the order at all.
	viewsZ := services.ScopeToSeller(orders, map[string]struct{}{"prod-z": {}})
	assert.Empty(t, viewsZ)
}

func TestScopeToSeller_RecomputedTotalMatchesRetainedItems(t *testing.T) {
	order := models.Order{
		ID: "order-1",
		Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 50},
			{ProductID: "p2", Quantity: 1, Price: 30},
			{ProductID: "p3", Quantity: 4, Price: 10},
		},
		TotalAmount: 170,
	}

	views := services.ScopeToSeller([]models.Order{order}, map[string]struct{}{"p1": {}, "p3": {}})
	assert.Len(t, views, 1)

	var sum float64
	for _, item := range views[0].Items {
		sum += item.Price * float64(item.Quantity)
	}
	assert.Equal(t, sum, views[0].SellerTotal)
	assert.Equal(t, 140.0, views[0].SellerTotal)
	assert.LessOrEqual(t, views[0].SellerTotal, order.TotalAmount)
}

func TestScopeToSeller_PreservesOrderingAndMetadata(t *testing.T) {
	now := time.Now()
	shipping := models.ShippingInfo{FullName: "Ann Farmer", City: "Springfield"}
	orders := []models.Order{
		{ID: "newest", BuyerID: "b1", Items: []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 10}}, Shipping: shipping, Status: models.StatusShipped, CreatedAt: now},
		{ID: "older", BuyerID: "b2", Items: []models.OrderItem{{ProductID: "p1", Quantity: 2, Price: 10}}, Status: models.StatusProcessing, CreatedAt: now.Add(-time.Hour)},
	}

	views := services.ScopeToSeller(orders, map[string]struct{}{"p1": {}})
	assert.Len(t, views, 2)
	assert.Equal(t, "newest", views[0].OrderID)
	assert.Equal(t, "older", views[1].OrderID)
	assert.Equal(t, shipping, views[0].Shipping)
	assert.Equal(t, models.StatusShipped, views[0].Status)
	assert.Equal(t, now, views[0].CreatedAt)
}

func TestScopeToSeller_EmptyInputs(t *testing.T) {
	assert.Empty(t, services.ScopeToSeller(nil, map[string]struct{}{"p1": {}}))
	assert.Empty(t, services.ScopeToSeller([]models.Order{{ID: "o1"}}, nil))
}

func TestSellerRevenue(t *testing.T) {
	views := []services.SellerOrderView{
		{SellerTotal: 100},
		{SellerTotal: 40.5},
	}
	assert.Equal(t, 140.5, services.SellerRevenue(views))
	assert.Equal(t, 0.0, services.SellerRevenue(nil))
}

func TestCatalogIDSet(t *testing.T) {
	products := []models.Product{{ID: "p1"}, {ID: "p2"}}
	ids := services.CatalogIDSet(products)
	assert.Len(t, ids, 2)
	_, ok := ids["p1"]
	assert.True(t, ok)
	_, ok = ids["p9"]
	assert.False(t, ok)
}
