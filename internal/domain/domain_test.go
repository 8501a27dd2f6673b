package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID int64, price string, qty int) CartLine {
	return CartLine{
		CartItem: CartItem{ProductID: productID, Quantity: qty},
		Product:  Product{ID: productID, Name: "product", Price: MustMoney(price)},
	}
}

func TestNewCart_Totals(t *testing.T) {
	tests := []struct {
		name      string
		lines     []CartLine
		wantCount int
		wantTotal string
	}{
		{"empty", nil, 0, "0.00"},
		{"decimal precision", []CartLine{line(1, "19.99", 3)}, 3, "59.97"},
		{"merged line", []CartLine{line(1, "20.00", 3)}, 3, "60.00"},
		{"several lines", []CartLine{line(1, "89.99", 1), line(2, "49.99", 2)}, 3, "189.97"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart("user-1", tt.lines)
			assert.Equal(t, tt.wantCount, c.ItemCount)
			assert.Equal(t, tt.wantTotal, c.Total.String())
			assert.NotNil(t, c.Items)
		})
	}
}

func TestCartLine_JSONFlattensItem(t *testing.T) {
	b, err := json.Marshal(line(4, "49.99", 2))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, float64(4), got["product_id"])
	assert.Equal(t, float64(2), got["quantity"])
	assert.Equal(t, "49.99", got["product"].(map[string]any)["price"])
}

func TestNormalizeVariant(t *testing.T) {
	m := " M "
	empty := ""
	assert.Equal(t, "", NormalizeVariant(nil))
	assert.Equal(t, "", NormalizeVariant(&empty))
	assert.Equal(t, "M", NormalizeVariant(&m))
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	addr := &Address{FullName: "Ada", City: "London"}
	o := NewOrder("user-1", OrderPayload{
		Items: []OrderLine{
			{ProductID: 1, Name: "Flowing Summer Dress", UnitPrice: MustMoney("89.99"), Quantity: 2, Size: "M"},
			{ProductID: 4, Name: "Layered Necklace Set", UnitPrice: MustMoney("49.99"), Quantity: 1, Color: "Gold"},
		},
		ShippingAddress: addr,
		Notes:           "leave at door",
	})

	assert.Equal(t, OrderStatusPlaced, o.Status)
	assert.Equal(t, "user-1", o.UserID)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "179.98", o.Items[0].LineTotal.String())
	assert.Equal(t, "229.97", o.TotalAmount.String())
	assert.Same(t, addr, o.ShippingAddress)
}

func TestPayloadFromCart(t *testing.T) {
	l := line(2, "129.99", 1)
	l.Size, l.Color = "S", "Black"
	l.Product.Name = "Cropped Blazer"

	p := PayloadFromCart([]CartLine{l}, nil, "gift")

	require.Len(t, p.Items, 1)
	assert.Equal(t, OrderLine{
		ProductID: 2, Name: "Cropped Blazer", UnitPrice: l.Product.Price, Quantity: 1, Size: "S", Color: "Black",
	}, p.Items[0])
	assert.Equal(t, "gift", p.Notes)
}

func TestProduct_Normalize(t *testing.T) {
	p := Product{}
	p.Normalize()
	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"images":[]`)
	assert.Contains(t, string(b), `"sizes":[]`)
	assert.NotContains(t, string(b), "original_price")
}
