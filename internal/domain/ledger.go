package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records a user buying a product at a specific historical price.
type Purchase struct {
	ID             int64
	UserID         int64
	ProductPriceID int64
	Timestamp      time.Time

	// Read-side fields resolved through the referenced price row.
	ProductID   int64
	ProductName string
	Price       decimal.Decimal
}

// Payment records money paid in by a user.
type Payment struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Timestamp time.Time
}

// AccountBalance is payments minus purchases for one user.
type AccountBalance struct {
	UserID         int64
	TotalPayments  decimal.Decimal
	TotalPurchases decimal.Decimal
	Net            decimal.Decimal
}

// NewAccountBalance derives Net from the two totals.
func NewAccountBalance(userID int64, payments, purchases decimal.Decimal) AccountBalance {
	return AccountBalance{
		UserID:         userID,
		TotalPayments:  payments,
		TotalPurchases: purchases,
		Net:            payments.Sub(purchases),
	}
}
