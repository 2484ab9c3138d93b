package models

import (
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID          int64           `json:"id"`
	CartID      int64           `json:"cartId"`
	Book        Book            `json:"book"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"lineTotal"`
}

// Reprice sets the line total from the current quantity and book price.
func (l *CartLine) Reprice() {
	l.TotalAmount = LineTotal(l.Book.Price, l.Quantity)
}

type Cart struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Items       []CartLine      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// LineIndex returns the position of the line holding bookID, or -1.
func (c *Cart) LineIndex(bookID int64) int {
	for i := range c.Items {
		if c.Items[i].Book.ID == bookID {
			return i
		}
	}

	return -1
}

// RemoveLine drops the line at index i, keeping the order of the rest.
func (c *Cart) RemoveLine(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// RecalculateTotal rebuilds TotalAmount from the lines.
func (c *Cart) RecalculateTotal() {
	total := decimal.Zero

	for _, line := range c.Items {
		total = total.Add(line.TotalAmount)
	}

	c.TotalAmount = total
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

type AddItemRequest struct {
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}
