package forecast

import "time"

// Order is a transactional order record. DeliveredAt and EstimatedDelivery
// are zero when the corresponding timestamp is unknown.
type Order struct {
	ID                string
	PurchasedAt       time.Time
	DeliveredAt       time.Time
	EstimatedDelivery time.Time
}

// Late reports whether the order was delivered after its estimated date.
// Orders without both delivery timestamps are not comparable.
func (o Order) Late() bool {
	return !o.DeliveredAt.IsZero() && !o.EstimatedDelivery.IsZero() &&
		o.DeliveredAt.After(o.EstimatedDelivery)
}

// OrderItem links one purchased product to its order.
type OrderItem struct {
	OrderID   string
	ProductID string
}

// Payment is one payment against an order.
type Payment struct {
	OrderID string
	Value   float64
}

// Product carries the category metadata for an order item's product.
type Product struct {
	ID       string
	Category string
}

// Dataset is one immutable snapshot of the transaction tables. Orders and
// Items are required; Payments and Products unlock the revenue and category
// operations respectively.
type Dataset struct {
	Orders   []Order
	Items    []OrderItem
	Payments []Payment
	Products []Product
}
