package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCheckedOutEvent struct {
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Email     string          `json:"email"`
	Products  []int64         `json:"products"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}
