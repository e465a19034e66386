package services

import "agromart/internal/models"

// OrderStats summarizes an order set for dashboard consumption.
type OrderStats struct {
	TotalOrders    int                        `json:"total_orders"`
	TotalRevenue   float64                    `json:"total_revenue"`
	CountsByStatus map[models.OrderStatus]int `json:"counts_by_status"`
}

// Summarize derives summary counters from an order set. Revenue sums the
// global totalAmount of each order, so the caller chooses between
// platform-wide and per-seller figures by passing the correspondingly
// scoped set. Every enumerated status appears in the counts, zero when
// absent. Pure function.
func Summarize(orders []models.Order) OrderStats {
	stats := OrderStats{
		CountsByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, status := range models.OrderStatuses {
		stats.CountsByStatus[status] = 0
	}
	for _, order := range orders {
		stats.TotalOrders++
		stats.TotalRevenue += order.TotalAmount
		stats.CountsByStatus[order.Status]++
	}
	return stats
}
