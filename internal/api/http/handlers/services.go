package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/finance-service/internal/api/dto"
	"github.com/spec-kit/finance-service/internal/auth"
	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/service"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// Authenticator is the part of service.AuthService the handlers use.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.User, error)
	ResolveActor(ctx context.Context, principal domain.Principal) (service.Actor, error)
	ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error
}

// Registrar is the part of service.RegistrationService the handlers use.
type Registrar interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Confirm(ctx context.Context, username, secret string) (*domain.User, error)
	RotateInvitation(ctx context.Context) (string, error)
}

// Ledger is the part of service.LedgerService the handlers use.
type Ledger interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, []domain.ProductPrice, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*domain.Product, error)
	RenameProduct(ctx context.Context, id int64, name string) (*domain.Product, error)
	UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (*domain.ProductPrice, error)
	RemoveProductPrice(ctx context.Context, id int64) error

	CreatePurchase(ctx context.Context, userID, productID int64) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, userID int64) ([]domain.Purchase, error)
	DeletePurchase(ctx context.Context, actor service.Actor, id int64) error

	CreatePayment(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Payment, error)
	ListPayments(ctx context.Context, userID int64) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, actor service.Actor, id int64) error
}

// Balances is the part of service.BalanceService the handlers use.
type Balances interface {
	ReadAccountBalance(ctx context.Context, userID int64) (domain.AccountBalance, error)
	ReadUserBalance(ctx context.Context, userID int64) (domain.AccountBalance, error)
}

// UserDirectory is the part of service.UserService the handlers use.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

func principalOf(c *fiber.Ctx) (domain.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthorized("missing principal")
	}
	return *principal, nil
}

func bindBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{name: c.Params(name)})
	}
	return id, nil
}
