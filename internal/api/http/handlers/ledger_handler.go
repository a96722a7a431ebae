package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/api/dto"
	"github.com/spec-kit/finance-service/internal/service"
)

// LedgerHandler exposes the caller's own purchases, payments and balance.
type LedgerHandler struct {
	auth     Authenticator
	ledger   Ledger
	balances Balances
}

// NewLedgerHandler constructs handler.
func NewLedgerHandler(authService Authenticator, ledger Ledger, balances Balances) *LedgerHandler {
	return &LedgerHandler{auth: authService, ledger: ledger, balances: balances}
}

func (h *LedgerHandler) actor(c *fiber.Ctx) (service.Actor, error) {
	principal, err := principalOf(c)
	if err != nil {
		return service.Actor{}, err
	}
	return h.auth.ResolveActor(c.UserContext(), principal)
}

// ListPurchases handles GET /purchases.
func (h *LedgerHandler) ListPurchases(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	purchases, err := h.ledger.ListPurchases(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPurchaseListResponse(purchases)})
}

// CreatePurchase handles POST /purchases.
func (h *LedgerHandler) CreatePurchase(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	var req dto.CreatePurchaseRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	purchase, err := h.ledger.CreatePurchase(c.UserContext(), actor.UserID, req.ProductID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPurchaseResponse(purchase)})
}

// DeletePurchase handles DELETE /purchases/:id.
func (h *LedgerHandler) DeletePurchase(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeletePurchase(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListPayments handles GET /payments.
func (h *LedgerHandler) ListPayments(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	payments, err := h.ledger.ListPayments(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentListResponse(payments)})
}

// CreatePayment handles POST /payments.
func (h *LedgerHandler) CreatePayment(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	var req dto.CreatePaymentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	payment, err := h.ledger.CreatePayment(c.UserContext(), actor.UserID, *req.Amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}

// DeletePayment handles DELETE /payments/:id.
func (h *LedgerHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeletePayment(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Balance handles GET /balance.
func (h *LedgerHandler) Balance(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}
	balance, err := h.balances.ReadAccountBalance(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBalanceResponse(balance)})
}
