package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin vendedor"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
}

// UpdateProfileRequest datos editables por el propio usuario.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=40"`
}

// UpdateRoleRequest cambio de rol (solo admin).
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin vendedor"`
}

// UpdateStatusRequest activa o desactiva una cuenta (solo admin).
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ChangePasswordRequest cambio de contraseña. Con Generate=true el servidor
// genera la contraseña y la devuelve una sola vez.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
	Generate        bool   `json:"generate"`
}

// ChangePasswordResponse resultado del cambio.
type ChangePasswordResponse struct {
	UserID            string `json:"user_id"`
	GeneratedPassword string `json:"generated_password,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeleteUserResponse resultado de eliminar un usuario.
type DeleteUserResponse struct {
	UserID               string `json:"user_id"`
	BusinessesReassigned int    `json:"businesses_reassigned"`
	ReassignedTo         string `json:"reassigned_to,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
