package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	Book        Book            `json:"book"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"lineTotal"`
}

// Order is immutable once persisted. TotalAmount is copied from the source cart,
// so it can differ from LinesTotal when a price changed after the cart was filled.
type Order struct {
	ID          int64           `json:"id"`
	OrderDate   time.Time       `json:"orderDate"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderLine     `json:"items"`
}

func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero

	for _, line := range o.Items {
		total = total.Add(line.TotalAmount)
	}

	return total
}

type CreateOrderRequest struct {
	CartID int64 `json:"cart_id" validate:"required,gt=0"`
}
