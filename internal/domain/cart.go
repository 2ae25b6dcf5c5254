package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	SessionID string     `bson:"session_id" json:"session_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"-"`
	UpdatedAt time.Time  `bson:"updated_at" json:"-"`
}

// CartItem keeps the display metadata copied from the catalog at add-time.
// Price stays a display string on the wire for compatibility with the
// storefront frontend; arithmetic always goes through ParsePrice.
type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Name      string    `bson:"name" json:"name"`
	Price     string    `bson:"price" json:"price"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Image     string    `bson:"image" json:"image"`
	AddedAt   time.Time `bson:"added_at" json:"-"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return ParsePrice(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total is the only way the cart total is ever produced; it is never stored.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) FindItem(productID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
