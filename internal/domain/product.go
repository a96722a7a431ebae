package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable item. Its price lives in ProductPrice rows.
type Product struct {
	ID           int64
	Name         string
	CurrentPrice *ProductPrice
}

// ProductPrice is one entry of a product's price history.
// At most one row per product has a nil ValidUntil.
type ProductPrice struct {
	ID         int64
	ProductID  int64
	Price      decimal.Decimal
	ValidUntil *time.Time
}

// Active reports whether this is the product's current price.
func (p *ProductPrice) Active() bool {
	return p.ValidUntil == nil
}
