package models

import "github.com/shopspring/decimal"

// CartLine is one product entry in a cart. Name and Price are copied from the
// product when the line is created and are not refreshed afterwards.
type CartLine struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns price x quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered set of lines of one session.
type Cart struct {
	Lines []CartLine
}

// Total sums the line subtotals. It is computed on every call and is zero for
// an empty cart.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount sums the quantities of every line.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Line returns the line for productID, if any.
func (c Cart) Line(productID string) (CartLine, bool) {
	if i := c.IndexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// IndexOf returns the position of the line for productID or -1.
func (c Cart) IndexOf(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
