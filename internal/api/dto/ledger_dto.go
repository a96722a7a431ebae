package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/finance-service/internal/domain"
)

// CreateProductRequest payload for POST /products.
type CreateProductRequest struct {
	Name  string           `json:"name" validate:"required,max=255"`
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// RenameProductRequest payload for PUT /products/:id.
type RenameProductRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdatePriceRequest payload for PUT /products/:id/price.
type UpdatePriceRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// CreatePurchaseRequest payload for POST /purchases.
type CreatePurchaseRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// CreatePaymentRequest payload for POST /payments.
type CreatePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

// ProductResponse shows a product with its current price, if any.
type ProductResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	PriceID *int64           `json:"price_id"`
	Price   *decimal.Decimal `json:"price"`
}

// PriceResponse is one entry of a price history.
type PriceResponse struct {
	ID         int64           `json:"id"`
	Price      decimal.Decimal `json:"price"`
	ValidUntil *time.Time      `json:"valid_until"`
}

// ProductDetailResponse adds the full price history, newest first.
type ProductDetailResponse struct {
	ProductResponse
	Prices []PriceResponse `json:"prices"`
}

// PurchaseResponse shows a purchase with the price it was made at.
type PurchaseResponse struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	PriceID     int64           `json:"price_id"`
	Price       decimal.Decimal `json:"price"`
	Timestamp   time.Time       `json:"timestamp"`
}

// PaymentResponse shows a single payment.
type PaymentResponse struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// BalanceResponse shows payments minus purchases.
type BalanceResponse struct {
	UserID         int64           `json:"user_id"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	Net            decimal.Decimal `json:"net"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{ID: p.ID, Name: p.Name}
	if p.CurrentPrice != nil {
		id, price := p.CurrentPrice.ID, p.CurrentPrice.Price
		resp.PriceID = &id
		resp.Price = &price
	}
	return resp
}

func NewProductListResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}

func NewProductDetailResponse(p *domain.Product, history []domain.ProductPrice) ProductDetailResponse {
	prices := make([]PriceResponse, 0, len(history))
	for _, h := range history {
		prices = append(prices, NewPriceResponse(h))
	}
	return ProductDetailResponse{ProductResponse: NewProductResponse(p), Prices: prices}
}

func NewPriceResponse(p domain.ProductPrice) PriceResponse {
	return PriceResponse{ID: p.ID, Price: p.Price, ValidUntil: p.ValidUntil}
}

func NewPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		PriceID:     p.ProductPriceID,
		Price:       p.Price,
		Timestamp:   p.Timestamp,
	}
}

func NewPurchaseListResponse(purchases []domain.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, NewPurchaseResponse(&purchases[i]))
	}
	return out
}

func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{ID: p.ID, UserID: p.UserID, Amount: p.Amount, Timestamp: p.Timestamp}
}

func NewPaymentListResponse(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, NewPaymentResponse(&payments[i]))
	}
	return out
}

func NewBalanceResponse(b domain.AccountBalance) BalanceResponse {
	return BalanceResponse{
		UserID:         b.UserID,
		TotalPayments:  b.TotalPayments,
		TotalPurchases: b.TotalPurchases,
		Net:            b.Net,
	}
}
