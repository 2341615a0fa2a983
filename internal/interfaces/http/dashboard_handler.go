package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pipeline-crm/internal/application/analytics"
)

// DashboardHandler maneja el endpoint de métricas comerciales.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las métricas del pipeline y del mes en curso.
// GET /api/dashboard
//
// Respuesta: DashboardResponse (total_clients, new_clients_this_month, total_sales,
// sales_this_month, conversion_rate, average_ticket, pipeline_value, clients_by_stage,
// sales_by_service, top_performers solo para admin, date_label).
// El vendedor solo ve sus propios negocios.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
