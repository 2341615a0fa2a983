package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
)

// CompanyHandler maneja las peticiones HTTP para empresas y sus contactos.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	contacts *usecase.ContactUseCase
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, contacts *usecase.ContactUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, contacts: contacts}
}

// Search godoc
// @Summary      Buscar empresas (autocompletar)
// @Tags         companies
// @Produce      json
// @Param        q      query  string  false  "Texto a buscar; ignora mayúsculas y acentos"
// @Param        limit  query  int     false  "Límite"  default(20)
// @Success      200    {array}  dto.CompanyResponse
// @Security     BearerAuth
// @Router       /api/companies [get]
func (h *CompanyHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa con sus contactos
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "empresa no encontrada")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar empresa
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la empresa"
// @Param        body  body  dto.CompanyRequest  true  "Datos de la empresa"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListContacts godoc
// @Summary      Contactos de una empresa
// @Tags         contacts
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {array}   dto.ContactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id}/contacts [get]
func (h *CompanyHandler) ListContacts(c *fiber.Ctx) error {
	out, err := h.contacts.ListByCompany(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateContact godoc
// @Summary      Agregar contacto a una empresa
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la empresa"
// @Param        body  body  dto.ContactRequest  true  "Datos del contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/companies/{id}/contacts [post]
func (h *CompanyHandler) CreateContact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.contacts.Create(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateContact godoc
// @Summary      Editar contacto
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del contacto"
// @Param        body  body  dto.ContactRequest  true  "Datos del contacto"
// @Success      200   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/contacts/{id} [put]
func (h *CompanyHandler) UpdateContact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.contacts.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteContact godoc
// @Summary      Eliminar contacto
// @Tags         contacts
// @Param        id   path  string  true  "ID del contacto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/contacts/{id} [delete]
func (h *CompanyHandler) DeleteContact(c *fiber.Ctx) error {
	if err := h.contacts.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
