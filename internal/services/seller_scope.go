package services

import (
	"time"

	"agromart/internal/models"
)

// SellerOrderView is the seller-facing projection of an order: only the line
// items referencing the seller's catalog, with a total recomputed over that
// subset. The order's global total is deliberately not carried; a
// multi-seller order's global total includes other sellers' goods.
type SellerOrderView struct {
	OrderID     string              `json:"order_id"`
	BuyerID     string              `json:"buyer_id"`
	Items       []models.OrderItem  `json:"items"`
	SellerTotal float64             `json:"seller_total"`
	Shipping    models.ShippingInfo `json:"shipping"`
	Status      models.OrderStatus  `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ScopeToSeller derives the seller-specific view of an order set. Each
// order's items are filtered to the seller's catalog; orders left with no
// items are dropped; the per-order total is recomputed as the sum of
// price x quantity over the retained items only. Pure function of its
// inputs; input ordering is preserved.
func ScopeToSeller(orders []models.Order, catalogItemIDs map[string]struct{}) []SellerOrderView {
	views := make([]SellerOrderView, 0, len(orders))
	for _, order := range orders {
		var items []models.OrderItem
		var total float64
		for _, item := range order.Items {
			if _, ok := catalogItemIDs[item.ProductID]; !ok {
				continue
			}
			items = append(items, item)
			total += item.Price * float64(item.Quantity)
		}
		if len(items) == 0 {
			continue
		}
		views = append(views, SellerOrderView{
			OrderID:     order.ID,
			BuyerID:     order.BuyerID,
			Items:       items,
			SellerTotal: total,
			Shipping:    order.Shipping,
			Status:      order.Status,
			CreatedAt:   order.CreatedAt,
			UpdatedAt:   order.UpdatedAt,
		})
	}
	return views
}

// SellerRevenue sums the recomputed per-view totals, for seller dashboards.
func SellerRevenue(views []SellerOrderView) float64 {
	var total float64
	for _, v := range views {
		total += v.SellerTotal
	}
	return total
}

// CatalogIDSet collects product ids into the membership set ScopeToSeller
// filters against.
func CatalogIDSet(products []models.Product) map[string]struct{} {
	ids := make(map[string]struct{}, len(products))
	for _, p := range products {
		ids[p.ID] = struct{}{}
	}
	return ids
}
