package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/api/dto"
)

// AdminHandler exposes account management for administrators.
type AdminHandler struct {
	users     UserDirectory
	ledger    Ledger
	balances  Balances
	registrar Registrar
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users UserDirectory, ledger Ledger, balances Balances, registrar Registrar) *AdminHandler {
	return &AdminHandler{users: users, ledger: ledger, balances: balances, registrar: registrar}
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserListResponse(users)})
}

// DeleteUser handles DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UserBalance handles GET /admin/users/:id/balance.
func (h *AdminHandler) UserBalance(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	balance, err := h.balances.ReadUserBalance(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBalanceResponse(balance)})
}

// ListPurchases handles GET /admin/users/:id/purchases.
func (h *AdminHandler) ListPurchases(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	purchases, err := h.ledger.ListPurchases(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPurchaseListResponse(purchases)})
}

// CreatePurchase handles POST /admin/users/:id/purchases.
func (h *AdminHandler) CreatePurchase(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreatePurchaseRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	purchase, err := h.ledger.CreatePurchase(c.UserContext(), id, req.ProductID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPurchaseResponse(purchase)})
}

// ListPayments handles GET /admin/users/:id/payments.
func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	payments, err := h.ledger.ListPayments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentListResponse(payments)})
}

// CreatePayment handles POST /admin/users/:id/payments.
func (h *AdminHandler) CreatePayment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreatePaymentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	payment, err := h.ledger.CreatePayment(c.UserContext(), id, *req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}

// RotateInvitation handles POST /admin/invitation.
func (h *AdminHandler) RotateInvitation(c *fiber.Ctx) error {
	code, err := h.registrar.RotateInvitation(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InvitationResponse{Code: code}})
}
