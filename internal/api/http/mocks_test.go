package http

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/service"
)

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *mockAuth) Me(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockAuth) ResolveActor(ctx context.Context, principal domain.Principal) (service.Actor, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(service.Actor), args.Error(1)
}

func (m *mockAuth) ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error {
	return m.Called(ctx, principal, currentPassword, newPassword).Error(0)
}

type mockRegistrar struct {
	mock.Mock
}

func (m *mockRegistrar) Register(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockRegistrar) Confirm(ctx context.Context, username, secret string) (*domain.User, error) {
	args := m.Called(ctx, username, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockRegistrar) RotateInvitation(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockLedger) GetProduct(ctx context.Context, id int64) (*domain.Product, []domain.ProductPrice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Product), args.Get(1).([]domain.ProductPrice), args.Error(2)
}

func (m *mockLedger) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*domain.Product, error) {
	args := m.Called(ctx, name, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockLedger) RenameProduct(ctx context.Context, id int64, name string) (*domain.Product, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockLedger) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (*domain.ProductPrice, error) {
	args := m.Called(ctx, id, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *mockLedger) RemoveProductPrice(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLedger) CreatePurchase(ctx context.Context, userID, productID int64) (*domain.Purchase, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *mockLedger) ListPurchases(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *mockLedger) DeletePurchase(ctx context.Context, actor service.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockLedger) CreatePayment(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Payment, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockLedger) ListPayments(ctx context.Context, userID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *mockLedger) DeletePayment(ctx context.Context, actor service.Actor, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockBalances struct {
	mock.Mock
}

func (m *mockBalances) ReadAccountBalance(ctx context.Context, userID int64) (domain.AccountBalance, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.AccountBalance), args.Error(1)
}

func (m *mockBalances) ReadUserBalance(ctx context.Context, userID int64) (domain.AccountBalance, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.AccountBalance), args.Error(1)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUsers) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
