package models

import "github.com/shopspring/decimal"

type Book struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
}

// BookFilter matches name and category case-insensitively; empty fields match everything.
type BookFilter struct {
	Search   string
	Category string
}
