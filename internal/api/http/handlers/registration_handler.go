package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/api/dto"
	apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"
)

// RegistrationHandler exposes the sign-up flow.
type RegistrationHandler struct {
	registrar Registrar
}

// NewRegistrationHandler constructs handler.
func NewRegistrationHandler(registrar Registrar) *RegistrationHandler {
	return &RegistrationHandler{registrar: registrar}
}

// Register handles POST /register.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	user, err := h.registrar.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRegistrationResponse(user)})
}

// Confirm handles POST /register/confirm.
func (h *RegistrationHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return h.confirm(c, req)
}

// ConfirmLink handles GET /register/confirm, the link sent by mail.
func (h *RegistrationHandler) ConfirmLink(c *fiber.Ctx) error {
	var req dto.ConfirmRequest
	if err := c.QueryParser(&req); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}
	return h.confirm(c, req)
}

func (h *RegistrationHandler) confirm(c *fiber.Ctx, req dto.ConfirmRequest) error {
	user, err := h.registrar.Confirm(c.UserContext(), req.Username, req.Secret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRegistrationResponse(user)})
}
