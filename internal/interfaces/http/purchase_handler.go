package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/purchase"
)

// PurchaseHandler maneja las peticiones HTTP de compras.
type PurchaseHandler struct {
	commands *purchase.UseCase
	queries  *purchase.QueryUseCase
	log      zerolog.Logger
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(commands *purchase.UseCase, queries *purchase.QueryUseCase, log zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{commands: commands, queries: queries, log: log}
}

// List godoc
// @Summary      Listar compras agrupadas por categoría
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        page             query  int     false  "Página (base 1)"  default(1)
// @Param        search_query     query  string  false  "Texto libre (referencia, notas, envío)"
// @Param        supplier_name    query  string  false  "Nombre del proveedor"
// @Param        date             query  string  false  "Prefijo de fecha ISO (2025-02)"
// @Param        purchase_number  query  string  false  "Número de referencia"
// @Success      200  {object}  dto.PurchaseListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "page debe ser >= 1", Fields: map[string]string{"page": "min"},
		})
	}
	q := dto.PurchaseListQuery{
		PageRequest:    dto.PageRequest{Page: page},
		SearchQuery:    strings.TrimSpace(c.Query("search_query")),
		SupplierName:   strings.TrimSpace(c.Query("supplier_name")),
		Date:           strings.TrimSpace(c.Query("date")),
		PurchaseNumber: strings.TrimSpace(c.Query("purchase_number")),
	}
	out, err := h.queries.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Form godoc
// @Summary      Datos del formulario de compra
// @Description  Proveedores, categorías con sus productos y símbolo de moneda.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse{data=dto.PurchaseFormResponse}
// @Router       /api/purchases/create [get]
func (h *PurchaseHandler) Form(c *fiber.Ctx) error {
	out, err := h.queries.Form(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Data: out})
}

// GetByID godoc
// @Summary      Obtener compra por ID
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.MessageResponse{data=dto.PurchaseResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.commands.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Data: out})
}

// Create godoc
// @Summary      Registrar compra
// @Description  Aplica cada línea al stock y al costo promedio ponderado del producto, todo en una transacción.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.MessageResponse{data=dto.PurchaseResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := parsePurchaseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.commands.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Success: true, Message: "Compra registrada", Data: out})
}

// Update godoc
// @Summary      Editar compra
// @Description  Revierte todas las líneas existentes y aplica las nuevas (reemplazo completo).
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la compra"
// @Param        body  body  dto.PurchaseRequest  true  "Cabecera y líneas"
// @Success      200   {object}  dto.MessageResponse{data=dto.PurchaseResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [put]
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := parsePurchaseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.commands.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Compra actualizada", Data: out})
}

// Delete godoc
// @Summary      Eliminar compra
// @Description  Revierte el efecto de cada línea sobre su producto y elimina la compra.
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.commands.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Compra eliminada"})
}
