package models

import "time"

// OrderStatus is the order-level lifecycle state.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusConfirmed  OrderStatus = "Confirmed"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every lifecycle state, in progression order.
var OrderStatuses = []OrderStatus{
	StatusProcessing, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
	PaymentUPI    PaymentMethod = "upi"
	PaymentCOD    PaymentMethod = "cod"
)

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentPaypal, PaymentUPI, PaymentCOD:
		return true
	}
	return false
}

// PaymentStatus is the payment sub-state, independent of the order status.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// OrderItem is one line item within an order. Price is a snapshot taken at
// placement time, independent of later catalog price changes.
type OrderItem struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

// ShippingInfo is the address snapshot attached to an order.
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Landmark   string `json:"landmark" validate:"omitempty,max=255"`
}

// Payment is the payment sub-record carried by an order.
type Payment struct {
	Method PaymentMethod `json:"method"`
	Status PaymentStatus `json:"status"`
	Amount float64       `json:"amount"`
}

// Order is the central transactional entity. It is created by a buyer and
// never owned by a seller; a seller's relationship to it is indirect,
// through the line items referencing that seller's catalog.
type Order struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID     string       `json:"buyer_id" gorm:"index;type:varchar(36)"`
	Items       []OrderItem  `json:"items" gorm:"serializer:json"`
	Shipping    ShippingInfo `json:"shipping" gorm:"serializer:json"`
	Payment     Payment      `json:"payment" gorm:"serializer:json"`
	TotalAmount float64      `json:"total_amount"`
	Status      OrderStatus  `json:"status" gorm:"type:varchar(16)"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
