package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/finance-service/internal/api/http/handlers"
	"github.com/spec-kit/finance-service/internal/auth"
	"github.com/spec-kit/finance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Registration   *handlers.RegistrationHandler
	Products       *handlers.ProductsHandler
	Ledger         *handlers.LedgerHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	loginLimiter := cfg.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	app.Post("/login", loginLimiter, cfg.Auth.Login)

	app.Post("/register/confirm", cfg.Registration.Confirm)
	app.Get("/register/confirm", cfg.Registration.ConfirmLink)

	bearer := cfg.AuthMiddleware.Handle
	app.Post("/register", bearer, auth.RequireRole(domain.RoleInvitation, domain.RoleAdmin), cfg.Registration.Register)

	authenticated := auth.RequireAuthenticated()
	app.Get("/me", bearer, authenticated, cfg.Auth.Me)
	app.Put("/me/password", bearer, authenticated, cfg.Auth.ChangePassword)

	member := auth.RequireRole(domain.RoleUser, domain.RoleAdmin)
	admin := auth.RequireRole(domain.RoleAdmin)

	products := app.Group("/products", bearer)
	products.Get("", member, cfg.Products.List)
	products.Get("/:id", member, cfg.Products.Get)
	products.Post("", admin, cfg.Products.Create)
	products.Put("/:id", admin, cfg.Products.Rename)
	products.Put("/:id/price", admin, cfg.Products.UpdatePrice)
	products.Delete("/:id/price", admin, cfg.Products.RemovePrice)

	purchases := app.Group("/purchases", bearer, member)
	purchases.Get("", cfg.Ledger.ListPurchases)
	purchases.Post("", cfg.Ledger.CreatePurchase)
	purchases.Delete("/:id", cfg.Ledger.DeletePurchase)

	payments := app.Group("/payments", bearer, member)
	payments.Get("", cfg.Ledger.ListPayments)
	payments.Post("", cfg.Ledger.CreatePayment)
	payments.Delete("/:id", cfg.Ledger.DeletePayment)

	app.Get("/balance", bearer, member, cfg.Ledger.Balance)

	adminGroup := app.Group("/admin", bearer, admin)
	adminGroup.Get("/users", cfg.Admin.ListUsers)
	adminGroup.Delete("/users/:id", cfg.Admin.DeleteUser)
	adminGroup.Get("/users/:id/balance", cfg.Admin.UserBalance)
	adminGroup.Get("/users/:id/purchases", cfg.Admin.ListPurchases)
	adminGroup.Post("/users/:id/purchases", cfg.Admin.CreatePurchase)
	adminGroup.Get("/users/:id/payments", cfg.Admin.ListPayments)
	adminGroup.Post("/users/:id/payments", cfg.Admin.CreatePayment)
	adminGroup.Post("/invitation", cfg.Admin.RotateInvitation)
}
