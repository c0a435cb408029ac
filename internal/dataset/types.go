package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is an order row as loaded, timestamps still in source text form.
type RawOrder struct {
	ID                    string
	CustomerID            string
	Status                string
	PurchaseTimestamp     string
	ApprovedAt            string
	DeliveredCarrierDate  string
	DeliveredCustomerDate string
	EstimatedDeliveryDate string
}

// Order is a processed order. Nil times are missing in the source or failed
// to parse; nil metrics could not be derived.
type Order struct {
	ID                  string
	CustomerID          string
	Status              string
	PurchasedAt         *time.Time
	ApprovedAt          *time.Time
	DeliveredCarrierAt  *time.Time
	DeliveredCustomerAt *time.Time
	EstimatedDeliveryAt *time.Time

	// DeliveryDays is delivered_customer - purchase in fractional days.
	DeliveryDays *float64
	// DelayDays is delivered_customer - estimated in fractional days, positive when late.
	DelayDays *float64
}

// ValidDeliveryDays returns DeliveryDays when it is known and not negative.
// A delivery recorded before the purchase is a data error and is left out of
// every delivery-time statistic.
func (o Order) ValidDeliveryDays() (float64, bool) {
	if o.DeliveryDays == nil || *o.DeliveryDays < 0 {
		return 0, false
	}
	return *o.DeliveryDays, true
}

type OrderItem struct {
	OrderID   string
	ProductID string
	Price     decimal.Decimal
}

// Product.Category is empty when the source value is missing.
type Product struct {
	ID       string
	Category string
}

type Customer struct {
	ID string
}

type Review struct {
	OrderID string
	Score   int
}

// JoinedRecord is one row of orders ⋈ items ⋈ products ⋈ customers ⋈ reviews.
type JoinedRecord struct {
	OrderID      string
	CustomerID   string
	ProductID    string
	Category     string
	Price        decimal.Decimal
	ReviewScore  int
	PurchasedAt  *time.Time
	DeliveryDays *float64
	DelayDays    *float64
}

// Tables is the loaded snapshot of the five source datasets.
type Tables struct {
	Orders     []RawOrder
	OrderItems []OrderItem
	Products   []Product
	Customers  []Customer
	Reviews    []Review
}
