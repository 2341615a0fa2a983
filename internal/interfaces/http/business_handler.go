package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/application/proposal"
)

// BusinessHandler negocios del pipeline, su historial y la propuesta en PDF.
type BusinessHandler struct {
	uc           *pipeline.BusinessUseCase
	interactions *pipeline.InteractionUseCase
	proposals    *proposal.UseCase
}

// NewBusinessHandler construye el handler de negocios.
func NewBusinessHandler(uc *pipeline.BusinessUseCase, interactions *pipeline.InteractionUseCase, proposals *proposal.UseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc, interactions: interactions, proposals: proposals}
}

// Board godoc
// @Summary      Tablero del pipeline agrupado por etapa
// @Description  Admin ve todos los negocios; el vendedor solo los asignados a él.
// @Tags         pipeline
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Security     BearerAuth
// @Router       /api/pipeline [get]
func (h *BusinessHandler) Board(c *fiber.Ctx) error {
	out, err := h.uc.Board(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear negocio (busca o crea la empresa)
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessRequest  true  "Datos del negocio y la empresa"
// @Success      201   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses [post]
func (h *BusinessHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Detalle del negocio
// @Tags         businesses
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {object}  dto.BusinessDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id} [get]
func (h *BusinessHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "negocio no encontrado")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar negocio y empresa
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del negocio"
// @Param        body  body  dto.UpdateBusinessRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id} [put]
func (h *BusinessHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStage godoc
// @Summary      Mover negocio de etapa (drag & drop)
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del negocio"
// @Param        body  body  dto.ChangeStageRequest  true  "stage_id"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id}/stage [patch]
func (h *BusinessHandler) ChangeStage(c *fiber.Ctx) error {
	var in dto.ChangeStageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.StageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stage_id es requerido"})
	}
	out, err := h.uc.ChangeStage(c.UserContext(), GetActor(c), c.Params("id"), in.StageID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar negocio
// @Tags         businesses
// @Param        id   path  string  true  "ID del negocio"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id} [delete]
func (h *BusinessHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListInteractions godoc
// @Summary      Historial del negocio (más reciente primero)
// @Tags         interactions
// @Produce      json
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {array}   dto.InteractionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id}/interactions [get]
func (h *BusinessHandler) ListInteractions(c *fiber.Ctx) error {
	out, err := h.interactions.List(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddInteraction godoc
// @Summary      Registrar interacción (nota, llamada, email, reunión)
// @Tags         interactions
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del negocio"
// @Param        body  body  dto.CreateInteractionRequest  true  "type, title, description"
// @Success      201   {object}  dto.InteractionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id}/interactions [post]
func (h *BusinessHandler) AddInteraction(c *fiber.Ctx) error {
	var in dto.CreateInteractionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.interactions.Add(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Proposal godoc
// @Summary      Descargar propuesta comercial en PDF
// @Tags         businesses
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del negocio"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/businesses/{id}/proposal [get]
func (h *BusinessHandler) Proposal(c *fiber.Ctx) error {
	pdf, filename, err := h.proposals.Download(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
