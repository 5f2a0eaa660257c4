package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is free text; admins may overwrite it with any value.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusFulfilled OrderStatus = "Fulfilled"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is a snapshot taken at checkout. Products keeps insertion order and
// duplicates; Total is never re-derived from the catalog.
type Order struct {
	ID        int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Products  []int64         `json:"products"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderInput is the full-replace payload of the administrative order update.
type OrderInput struct {
	UserID   int64           `json:"user_id" validate:"gte=0"`
	Products []int64         `json:"products"`
	Total    decimal.Decimal `json:"total" validate:"gte=0"`
	Status   OrderStatus     `json:"status" validate:"required,max=32"`
}
