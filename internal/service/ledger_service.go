package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/repository"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// LedgerService manages products, prices, purchases and payments.
type LedgerService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	payments  repository.PaymentRepository
	clock     clockwork.Clock
	logger    *zap.Logger
}

// LedgerDependencies encapsulates repositories required by the ledger.
type LedgerDependencies struct {
	ProductRepo  repository.ProductRepository
	PurchaseRepo repository.PurchaseRepository
	PaymentRepo  repository.PaymentRepository
	Clock        clockwork.Clock
}

// NewLedgerService constructs the service.
func NewLedgerService(deps LedgerDependencies, logger *zap.Logger) *LedgerService {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LedgerService{
		products:  deps.ProductRepo,
		purchases: deps.PurchaseRepo,
		payments:  deps.PaymentRepo,
		clock:     clock,
		logger:    logger,
	}
}

// ListProducts returns every product with its current price, if any.
func (s *LedgerService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// GetProduct returns a product and its full price history.
func (s *LedgerService) GetProduct(ctx context.Context, id int64) (*domain.Product, []domain.ProductPrice, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.products.PriceHistory(ctx, id)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return product, history, nil
}

// CreateProduct adds a product with its first price. An existing product
// without an active price is reactivated with the given price instead.
func (s *LedgerService) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*domain.Product, error) {
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	existing, err := s.products.GetByName(ctx, name)
	switch {
	case err == nil:
		return s.reactivate(ctx, existing, price)
	case !apperrors.IsNotFound(err):
		return nil, apperrors.MapError(err)
	}

	product, err := s.products.CreateWithPrice(ctx, name, price)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicateProduct(name)
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

func (s *LedgerService) reactivate(ctx context.Context, product *domain.Product, price decimal.Decimal) (*domain.Product, error) {
	if product.CurrentPrice != nil {
		return nil, duplicateProduct(product.Name)
	}
	current, err := s.products.AttachPrice(ctx, product.ID, price)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, duplicateProduct(product.Name)
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Warn("reactivated priceless product", zap.Int64("product_id", product.ID))
	product.CurrentPrice = current
	return product, nil
}

// RenameProduct changes a product's name.
func (s *LedgerService) RenameProduct(ctx context.Context, id int64, name string) (*domain.Product, error) {
	if err := s.products.Rename(ctx, id, name); err != nil {
		switch {
		case apperrors.IsNotFound(err):
			return nil, productNotFound(id)
		case apperrors.IsUniqueViolation(err):
			return nil, duplicateProduct(name)
		}
		return nil, apperrors.MapError(err)
	}
	return s.getProduct(ctx, id)
}

// UpdateProductPrice closes the active price and opens a new one atomically.
// A priceless product simply gets a new active price.
func (s *LedgerService) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (*domain.ProductPrice, error) {
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if _, err := s.getProduct(ctx, id); err != nil {
		return nil, err
	}
	current, err := s.products.RotatePrice(ctx, id, price, s.clock.Now().UTC())
	if err != nil {
		switch {
		case apperrors.IsCheckViolation(err):
			return nil, apperrors.NewValidationError("price must not be negative", nil)
		case apperrors.IsUniqueViolation(err):
			return nil, apperrors.NewInvalidState("price changed concurrently")
		}
		return nil, apperrors.MapError(err)
	}
	return current, nil
}

// RemoveProductPrice closes the active price, leaving the product priceless.
func (s *LedgerService) RemoveProductPrice(ctx context.Context, id int64) error {
	if _, err := s.getProduct(ctx, id); err != nil {
		return err
	}
	if err := s.products.ClosePrice(ctx, id, s.clock.Now().UTC()); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewInvalidState("product has no active price")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreatePurchase records a purchase of the product at its current price.
func (s *LedgerService) CreatePurchase(ctx context.Context, userID, productID int64) (*domain.Purchase, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.CurrentPrice == nil {
		return nil, apperrors.NewInvalidState("product has no active price")
	}
	purchase, err := s.purchases.Create(ctx, userID, productID, s.clock.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewInvalidState("product has no active price")
		case apperrors.IsForeignKeyViolation(err):
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return purchase, nil
}

// ListPurchases returns a user's purchases, newest first.
func (s *LedgerService) ListPurchases(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	purchases, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return purchases, nil
}

// DeletePurchase hard deletes a purchase owned by the actor, or any purchase for admins.
func (s *LedgerService) DeletePurchase(ctx context.Context, actor Actor, id int64) error {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("purchase", map[string]any{"purchase_id": id})
		}
		return apperrors.MapError(err)
	}
	if err := actor.mayAccess(purchase.UserID); err != nil {
		return err
	}
	if err := s.purchases.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("purchase", map[string]any{"purchase_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CreatePayment records money paid in by a user.
func (s *LedgerService) CreatePayment(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": amount.String()})
	}
	if err := validateMoney("amount", amount); err != nil {
		return nil, err
	}
	payment := &domain.Payment{
		UserID:    userID,
		Amount:    amount,
		Timestamp: s.clock.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if apperrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return payment, nil
}

// ListPayments returns a user's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, userID int64) ([]domain.Payment, error) {
	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return payments, nil
}

// DeletePayment hard deletes a payment owned by the actor, or any payment for admins.
func (s *LedgerService) DeletePayment(ctx context.Context, actor Actor, id int64) error {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("payment", map[string]any{"payment_id": id})
		}
		return apperrors.MapError(err)
	}
	if err := actor.mayAccess(payment.UserID); err != nil {
		return err
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewNotFound("payment", map[string]any{"payment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *LedgerService) getProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, productNotFound(id)
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// maxAmount is the first value a NUMERIC(12,2) column cannot hold.
var maxAmount = decimal.New(1, 10)

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperrors.NewValidationError("price must not be negative", map[string]any{"price": price.String()})
	}
	return validateMoney("price", price)
}

// validateMoney rejects values the ledger columns would round or overflow.
func validateMoney(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(2)) {
		return apperrors.NewValidationError(field+" must have at most two decimal places", map[string]any{field: v.String()})
	}
	if v.Abs().GreaterThanOrEqual(maxAmount) {
		return apperrors.NewValidationError(field+" is too large", map[string]any{field: v.String()})
	}
	return nil
}

func productNotFound(id int64) error {
	return apperrors.NewNotFound("product", map[string]any{"product_id": id})
}

func duplicateProduct(name string) error {
	return apperrors.NewDuplicateKey("product already exists", map[string]any{"name": name})
}
