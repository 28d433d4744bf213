package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavida/farmavida-api/internal/application/dto"
	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/application/usecase"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP para items (protegido).
// alertDays y alertStockFloor son los umbrales por defecto del tablero de
// alertas (ALERTS_EXPIRY_DAYS / ALERTS_STOCK_FLOOR), sobreescribibles por query.
type ItemHandler struct {
	uc              *usecase.ItemUseCase
	alertsUC        *inventory.AlertsUseCase
	alertDays       int
	alertStockFloor int64
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase, alertsUC *inventory.AlertsUseCase, alertDays int, alertStockFloor int64) *ItemHandler {
	return &ItemHandler{uc: uc, alertsUC: alertsUC, alertDays: alertDays, alertStockFloor: alertStockFloor}
}

// Create godoc
// @Summary      Crear item (con stock inicial opcional)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del item"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(out)
}

// GetByBarcode godoc
// @Summary      Obtener item por código de barras
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de barras"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/by-barcode/{code} [get]
func (h *ItemHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.uc.GetByBarcode(c.Context(), c.Params("code"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar items con búsqueda y filtros de stock
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Búsqueda (nombre sin tildes, descripción, barcode)"
// @Param        minStock  query  int     false  "Stock mínimo"
// @Param        maxStock  query  int     false  "Stock máximo"
// @Param        sort      query  string  false  "id | name | stock | price"
// @Param        order     query  string  false  "asc | desc"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200       {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter{
		Query:  c.Query("q"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if v := c.QueryInt("minStock", -1); v >= 0 {
		min := int64(v)
		filter.MinStock = &min
	}
	if v := c.QueryInt("maxStock", -1); v >= 0 {
		max := int64(v)
		filter.MaxStock = &max
	}
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar item (el stock va por movimientos)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
// @Router       /api/items/{id} [patch]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(out)
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock (delta positivo o negativo)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/adjust-stock [patch]
func (h *ItemHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AdjustStock(c.Context(), c.Params("id"), GetUserID(c), in.Delta)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Reactivate godoc
// @Summary      Reactivar un item desactivado
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/reactivate [patch]
func (h *ItemHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.uc.Reactivate(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "item no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar item (solo con stock 0; borra lotes y movimientos)
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del item"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Alerts godoc
// @Summary      Alertas: lotes por caducar y stock bajo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        days        query  int  false  "Ventana de caducidad en días (por defecto la configurada)"
// @Param        stockFloor  query  int  false  "Umbral de stock bajo (por defecto el configurado)"
// @Success      200  {object}  dto.AlertsResponse
// @Router       /api/items/alerts [get]
func (h *ItemHandler) Alerts(c *fiber.Ctx) error {
	days := c.QueryInt("days", h.alertDays)
	stockFloor := int64(c.QueryInt("stockFloor", int(h.alertStockFloor)))
	out, err := h.alertsUC.GetAlerts(c.Context(), days, stockFloor)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
