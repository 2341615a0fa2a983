package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pipeline-crm/internal/application/dto"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
)

// UserHandler administración de usuarios y perfil propio.
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler de usuarios.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Param        search  query  string  false  "Nombre o email"
// @Param        role    query  string  false  "all, admin o vendedor"  default(all)
// @Success      200     {array}   dto.UserResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("search"), c.Query("role", usecase.RoleFilterAll))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Assignable godoc
// @Summary      Usuarios a los que se pueden asignar negocios
// @Tags         users
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Security     BearerAuth
// @Router       /api/users/assignable [get]
func (h *UserHandler) Assignable(c *fiber.Ctx) error {
	out, err := h.uc.Assignable(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMe godoc
// @Summary      Editar nombre y teléfono propios
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "name, phone"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateRole godoc
// @Summary      Cambiar rol
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateRoleRequest  true  "role"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateRole(c.UserContext(), c.Params("id"), in.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Activar o desactivar usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del usuario"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/{id}/status [put]
func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario reasignando sus negocios
// @Tags         users
// @Produce      json
// @Param        id           path   string  true   "ID del usuario"
// @Param        reassign_to  query  string  false  "Usuario que recibe los negocios"
// @Success      200          {object}  dto.DeleteUserResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id"), c.Query("reassign_to"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
