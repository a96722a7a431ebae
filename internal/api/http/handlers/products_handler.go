package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/api/dto"
)

// ProductsHandler exposes the product catalogue and its price history.
type ProductsHandler struct {
	ledger Ledger
}

// NewProductsHandler constructs handler.
func NewProductsHandler(ledger Ledger) *ProductsHandler {
	return &ProductsHandler{ledger: ledger}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.ledger.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, history, err := h.ledger.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductDetailResponse(product, history)})
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	product, err := h.ledger.CreateProduct(c.UserContext(), req.Name, *req.Price)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Rename handles PUT /products/:id.
func (h *ProductsHandler) Rename(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RenameProductRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	product, err := h.ledger.RenameProduct(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// UpdatePrice handles PUT /products/:id/price.
func (h *ProductsHandler) UpdatePrice(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePriceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	price, err := h.ledger.UpdateProductPrice(c.UserContext(), id, *req.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPriceResponse(*price)})
}

// RemovePrice handles DELETE /products/:id/price.
func (h *ProductsHandler) RemovePrice(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ledger.RemoveProductPrice(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
