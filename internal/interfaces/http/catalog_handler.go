package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// CatalogHandler servicios, planes y etapas del pipeline.
type CatalogHandler struct {
	services *usecase.CatalogUseCase
	stages   *usecase.StageUseCase
}

// NewCatalogHandler construye el handler del catálogo.
func NewCatalogHandler(services *usecase.CatalogUseCase, stages *usecase.StageUseCase) *CatalogHandler {
	return &CatalogHandler{services: services, stages: stages}
}

// ListServices godoc
// @Summary      Listar servicios con sus planes
// @Description  Los vendedores solo ven servicios y planes activos; all=true solo aplica a admin.
// @Tags         services
// @Produce      json
// @Param        all  query  bool  false  "Incluir inactivos"
// @Success      200  {array}  dto.ServiceResponse
// @Security     BearerAuth
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	out, err := h.services.List(c.UserContext(), GetActor(c), c.QueryBool("all", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateService godoc
// @Summary      Crear servicio
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceRequest  true  "name, description"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/services [post]
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.services.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateService godoc
// @Summary      Editar servicio
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del servicio"
// @Param        body  body  dto.ServiceRequest  true  "name, description, active"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.services.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateService godoc
// @Summary      Desactivar servicio
// @Tags         services
// @Param        id   path  string  true  "ID del servicio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/services/{id} [delete]
func (h *CatalogHandler) DeactivateService(c *fiber.Ctx) error {
	if err := h.services.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddPlan godoc
// @Summary      Agregar plan a un servicio
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del servicio"
// @Param        body  body  dto.PlanRequest  true  "Datos del plan"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/services/{id}/plans [post]
func (h *CatalogHandler) AddPlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.services.AddPlan(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePlan godoc
// @Summary      Editar plan
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id      path  string           true  "ID del servicio"
// @Param        planId  path  string           true  "ID del plan"
// @Param        body    body  dto.PlanRequest  true  "Datos del plan"
// @Success      200     {object}  dto.PlanResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/services/{id}/plans/{planId} [put]
func (h *CatalogHandler) UpdatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.services.UpdatePlan(c.UserContext(), c.Params("id"), c.Params("planId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListStages godoc
// @Summary      Etapas del pipeline ordenadas por posición
// @Tags         stages
// @Produce      json
// @Param        all  query  bool  false  "Incluir inactivas (solo admin)"
// @Success      200  {array}  dto.StageResponse
// @Security     BearerAuth
// @Router       /api/stages [get]
func (h *CatalogHandler) ListStages(c *fiber.Ctx) error {
	var (
		out []dto.StageResponse
		err error
	)
	if c.QueryBool("all", false) && GetRole(c) == entity.RoleAdmin {
		out, err = h.stages.ListAll(c.UserContext())
	} else {
		out, err = h.stages.ListActive(c.UserContext())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateStage godoc
// @Summary      Crear etapa
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StageRequest  true  "name, color, position, kind"
// @Success      201   {object}  dto.StageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/stages [post]
func (h *CatalogHandler) CreateStage(c *fiber.Ctx) error {
	var in dto.StageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stages.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStage godoc
// @Summary      Editar etapa
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la etapa"
// @Param        body  body  dto.StageRequest  true  "name, color, position, kind, active"
// @Success      200   {object}  dto.StageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/stages/{id} [put]
func (h *CatalogHandler) UpdateStage(c *fiber.Ctx) error {
	var in dto.StageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stages.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
