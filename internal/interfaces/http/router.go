package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/compras-api/internal/application/purchase"
	"github.com/jhoicas/compras-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Purchases       *purchase.UseCase
	PurchaseQueries *purchase.QueryUseCase
	JWTSecret       string // vacío = rutas sin autenticación (modo demo local)
	Log             zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	readers := []fiber.Handler{}
	writers := []fiber.Handler{}
	if deps.JWTSecret != "" {
		auth := AuthMiddleware(deps.JWTSecret)
		readers = append(readers, auth)
		writers = append(writers, auth, RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero))
	} else {
		deps.Log.Warn().Msg("JWT_SECRET vacío: rutas de compras sin autenticación")
	}

	h := NewPurchaseHandler(deps.Purchases, deps.PurchaseQueries, deps.Log)
	purchases := api.Group("/purchases")

	// /create antes de /:id para que no se interprete como ID.
	purchases.Get("/", chain(readers, h.List)...)
	purchases.Get("/create", chain(readers, h.Form)...)
	purchases.Get("/:id", chain(readers, h.GetByID)...)
	purchases.Post("/", chain(writers, h.Create)...)
	purchases.Put("/:id", chain(writers, h.Update)...)
	purchases.Delete("/:id", chain(writers, h.Delete)...)
}

func chain(middleware []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(middleware)+1)
	out = append(out, middleware...)
	return append(out, h)
}
