package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/farmavida/farmavida-api/internal/application/report"
)

// ReportHandler maneja la exportación de reportes (protegido).
type ReportHandler struct {
	kardexUC *report.KardexUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(kardexUC *report.KardexUseCase) *ReportHandler {
	return &ReportHandler{kardexUC: kardexUC}
}

// Kardex godoc
// @Summary      Exportar kardex de un item como PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del item"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/kardex/{id} [get]
func (h *ReportHandler) Kardex(c *fiber.Ctx) error {
	id := c.Params("id")
	pdfBytes, err := h.kardexUC.GenerateKardex(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="kardex-%s.pdf"`, id))
	return c.Send(pdfBytes)
}
