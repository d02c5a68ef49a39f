package cart

import (
	"time"

	"dishtalgia-backend/internal/catalog"

	"github.com/shopspring/decimal"
)

// Line is one (productId, sizeId) entry with cached product data.
type Line struct {
	ProductID   int     `bson:"productId" json:"productId"`
	SizeID      string  `bson:"sizeId" json:"sizeId"`
	SizeName    string  `bson:"sizeName" json:"sizeName"`
	ProductName string  `bson:"productName" json:"productName"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Image       string  `bson:"image" json:"image"`
}

// Cart holds ordered, deduplicated lines. At most one line exists per
// (productId, sizeId) and every quantity is at least 1.
type Cart struct {
	UserEmail string    `bson:"userEmail" json:"userEmail"`
	Items     []Line    `bson:"items" json:"items"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func New(userEmail string) *Cart {
	return &Cart{UserEmail: userEmail, Items: []Line{}}
}

func (c *Cart) index(productID int, sizeID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.SizeID == sizeID {
			return i
		}
	}
	return -1
}

// Add merges quantity into the existing line for the pair or appends a new
// line. It reports false and leaves the cart untouched when the size does
// not exist on the product or qty is not positive.
func (c *Cart) Add(p *catalog.Product, sizeID string, qty int) bool {
	if p == nil || qty <= 0 {
		return false
	}
	size, ok := p.Size(sizeID)
	if !ok {
		return false
	}

	if i := c.index(p.ID, sizeID); i >= 0 {
		c.Items[i].Quantity += qty
		return true
	}

	c.Items = append(c.Items, Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		SizeID:      sizeID,
		SizeName:    size.Name,
		Price:       size.Price,
		Quantity:    qty,
		Image:       p.Image,
	})
	return true
}

// UpdateQuantity replaces the quantity of a line, removing it when qty <= 0.
func (c *Cart) UpdateQuantity(productID int, sizeID string, qty int) {
	if qty <= 0 {
		c.Remove(productID, sizeID)
		return
	}
	if i := c.index(productID, sizeID); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

func (c *Cart) Remove(productID int, sizeID string) {
	if i := c.index(productID, sizeID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = []Line{}
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total() float64 {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64()
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
