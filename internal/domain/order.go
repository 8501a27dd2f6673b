package domain

import "time"

// OrderStatusPlaced is the only status an order ever has; orders are not
// updated after creation.
const OrderStatusPlaced = "placed"

// Order is an immutable snapshot of what a shopper bought.
type Order struct {
	ID              int64       `json:"id"`
	UserID          string      `json:"user_id"`
	Status          string      `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     Money       `json:"total_amount"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Address is a free-form shipping address stored as JSON.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
}

// OrderItem is a denormalized line: name and price are copied at order time.
type OrderItem struct {
	ID        int64  `json:"id"`
	OrderID   int64  `json:"order_id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice Money  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	LineTotal Money  `json:"line_total"`
}

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID int64
	Name      string
	UnitPrice Money
	Quantity  int
	Size      string
	Color     string
}

// OrderPayload is everything needed to record an order. Callers build it,
// usually from the shopper's cart.
type OrderPayload struct {
	Items           []OrderLine
	ShippingAddress *Address
	Notes           string
}

// NewOrder builds an unsaved order with line totals and the order total
// computed in decimal.
func NewOrder(userID string, p OrderPayload) *Order {
	o := &Order{
		UserID:          userID,
		Status:          OrderStatusPlaced,
		Items:           make([]OrderItem, 0, len(p.Items)),
		ShippingAddress: p.ShippingAddress,
		Notes:           p.Notes,
	}
	for _, l := range p.Items {
		item := OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
			LineTotal: l.UnitPrice.Times(l.Quantity),
		}
		o.TotalAmount = o.TotalAmount.Plus(item.LineTotal)
		o.Items = append(o.Items, item)
	}
	return o
}

// PayloadFromCart turns cart lines into order lines at current product prices.
func PayloadFromCart(lines []CartLine, addr *Address, notes string) OrderPayload {
	p := OrderPayload{
		Items:           make([]OrderLine, 0, len(lines)),
		ShippingAddress: addr,
		Notes:           notes,
	}
	for _, l := range lines {
		p.Items = append(p.Items, OrderLine{
			ProductID: l.ProductID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.Price,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
		})
	}
	return p
}
