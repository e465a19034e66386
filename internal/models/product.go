package models

import "gorm.io/gorm"

// Availability is the derived stock flag on a catalog item.
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
)

// AvailabilityForStock derives the availability flag from a stock level.
func AvailabilityForStock(stock int) Availability {
	if stock <= 0 {
		return OutOfStock
	}
	return InStock
}

// Product represents a catalog item owned by exactly one seller account.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID    string `json:"seller_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`

	// A product can carry a sale price, a rental price, or both.
	Price       float64 `json:"price" validate:"gte=0"`
	RentalPrice float64 `json:"rental_price" validate:"gte=0"`
	RentalUnit  string  `json:"rental_unit" validate:"omitempty,oneof=hour day week month"`

	Stock        int          `json:"stock" validate:"gte=0"`
	Availability Availability `json:"availability" gorm:"type:varchar(16)"`
	CategoryID   string       `json:"category_id" gorm:"type:varchar(36)" validate:"omitempty,uuid"`

	gorm.Model `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
