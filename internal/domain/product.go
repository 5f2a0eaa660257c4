package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SumPrices adds up the price of every cart entry that still resolves in
// catalog. Entries missing from catalog are dropped, so the returned ids are
// the ones that contributed to the total, in cart order.
func SumPrices(cart []int64, catalog []Product) (decimal.Decimal, []int64) {
	byID := make(map[int64]Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	total := decimal.Zero
	resolved := make([]int64, 0, len(cart))
	for _, id := range cart {
		p, ok := byID[id]
		if !ok {
			continue
		}
		total = total.Add(p.Price)
		resolved = append(resolved, id)
	}

	return total, resolved
}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
}
