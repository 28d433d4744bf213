package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmavida/farmavida-api/internal/application/dto"
	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// MovementHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type MovementHandler struct {
	applyUC *inventory.ApplyMovementUseCase
	listUC  *inventory.ListMovementsUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(applyUC *inventory.ApplyMovementUseCase, listUC *inventory.ListMovementsUseCase) *MovementHandler {
	return &MovementHandler{applyUC: applyUC, listUC: listUC}
}

// Apply godoc
// @Summary      Aplicar movimiento de stock (entrada o salida FEFO)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input, err := toApplyInput(in, GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser YYYY-MM-DD"})
	}
	result, err := h.applyUC.ApplyMovement(c.Context(), input)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResultResponse(result))
}

// RegisterEntry godoc
// @Summary      Registrar entrada con lote y caducidad obligatorios
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "Entrada"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/entries [post]
func (h *MovementHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ItemID == "" || in.LotCode == "" || in.Expiry == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "itemId, lotCode y expiry son requeridos"})
	}
	expiry, err := time.Parse("2006-01-02", in.Expiry)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "expiry debe ser YYYY-MM-DD"})
	}
	lotCode := in.LotCode
	result, err := h.applyUC.ApplyMovement(c.Context(), inventory.ApplyMovementInput{
		ItemID:      in.ItemID,
		Kind:        entity.MovementKindEntry,
		Quantity:    in.Quantity,
		Motive:      in.Motive,
		DocumentRef: in.DocumentRef,
		LotCode:     &lotCode,
		Expiry:      &expiry,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResultResponse(result))
}

// List godoc
// @Summary      Listar movimientos (historial, más reciente primero)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        itemId  query  string  false  "Filtrar por item"
// @Param        kind    query  string  false  "entry | exit"
// @Param        from    query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}   dto.MovementDTO
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	from, err := parseTimeParam(c.Query("from"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD o RFC3339"})
	}
	to, err := parseTimeParam(c.Query("to"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD o RFC3339"})
	}
	movements, err := h.listUC.ListMovements(c.Context(), inventory.ListMovementsInput{
		ItemID: c.Query("itemId"),
		Kind:   c.Query("kind"),
		From:   from,
		To:     to,
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementDTO(m))
	}
	return c.JSON(out)
}

// toApplyInput traduce el body al input del caso de uso. lotCode/expiry vacíos se
// tratan como ausentes (nil).
func toApplyInput(in dto.ApplyMovementRequest, userID string) (inventory.ApplyMovementInput, error) {
	input := inventory.ApplyMovementInput{
		ItemID:      in.ItemID,
		Barcode:     in.Barcode,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		Motive:      in.Motive,
		DocumentRef: in.DocumentRef,
		UserID:      userID,
	}
	if in.LotCode != "" {
		code := in.LotCode
		input.LotCode = &code
	}
	if in.Expiry != "" {
		expiry, err := time.Parse("2006-01-02", in.Expiry)
		if err != nil {
			return input, err
		}
		input.Expiry = &expiry
	}
	return input, nil
}

// parseTimeParam acepta RFC3339 o fecha simple. Una fecha simple en "to" se
// interpreta como fin de día para que el rango sea inclusivo.
func parseTimeParam(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toMovementDTO(m *entity.Movement) dto.MovementDTO {
	return dto.MovementDTO{
		ID:          m.ID,
		ItemID:      m.ItemID,
		LotID:       m.LotID,
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		Motive:      m.Motive,
		DocumentRef: m.DocumentRef,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		CreatedBy:   m.CreatedBy,
	}
}

func toMovementResultResponse(result *inventory.MovementResult) dto.MovementResultResponse {
	resp := dto.MovementResultResponse{
		Movements: make([]dto.MovementDTO, 0, len(result.Movements)),
		Item: dto.ItemSnapshotDTO{
			ID:    result.Item.ID,
			Name:  result.Item.Name,
			Stock: result.Item.Stock,
		},
		Lots: make([]dto.LotDTO, 0, len(result.Lots)),
	}
	for _, m := range result.Movements {
		resp.Movements = append(resp.Movements, toMovementDTO(m))
	}
	for _, l := range result.Lots {
		d := dto.LotDTO{ID: l.ID, ItemID: l.ItemID, Stock: l.Stock}
		if l.Code != nil {
			d.LotCode = *l.Code
		}
		if l.Expiry != nil {
			d.Expiry = l.Expiry.Format("2006-01-02")
		}
		resp.Lots = append(resp.Lots, d)
	}
	return resp
}
