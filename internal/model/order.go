package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderStatus represents the fulfilment status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// PaymentProvider identifies the processor that captured an order's payment.
type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderAlipay PaymentProvider = "alipay"
)

// Order is the slice of the catalog order record this service reads and patches.
// Amounts are in the smallest currency unit (cents).
type Order struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status           OrderStatus     `gorm:"not null;default:pending"`
	PaymentStatus    PaymentStatus   `gorm:"not null;default:pending"`
	PaymentProvider  PaymentProvider `gorm:"default:stripe"`
	PaymentIntentRef *string         `gorm:"index"`
	Currency         string          `gorm:"default:usd"`
	TotalAmount      int64
	AdminNotes       pq.StringArray `gorm:"type:text[]"`
	DeliveredAt      *time.Time
	RefundedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relations
	Items []*OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name.
func (Order) TableName() string {
	return "orders"
}

// DeliveryReference returns the instant the return window is measured from.
// Orders without a recorded delivery fall back to their creation time.
func (o *Order) DeliveryReference() time.Time {
	if o.DeliveredAt != nil {
		return *o.DeliveredAt
	}
	return o.CreatedAt
}

// HasPaymentIntent reports whether the order was paid through a refundable gateway.
func (o *Order) HasPaymentIntent() bool {
	return o.PaymentIntentRef != nil && *o.PaymentIntentRef != ""
}

// Item returns the line at the given position, or nil when out of range.
func (o *Order) Item(index int) *OrderItem {
	if index < 0 || index >= len(o.Items) {
		return nil
	}
	return o.Items[index]
}

// OrderItem represents a line item in an order.
// Position is the zero-based index of the line in the order's item list.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	ProductName string    `gorm:"not null"`
	Quantity    int       `gorm:"default:1"`
	UnitPrice   int64     // In cents
}

// TableName returns the database table name.
func (OrderItem) TableName() string {
	return "order_items"
}
