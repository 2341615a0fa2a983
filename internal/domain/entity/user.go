package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// Estados de la cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del CRM (administrador o vendedor).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         string // admin, vendedor
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin informa si el usuario tiene rol de administrador.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// IsActive informa si la cuenta puede iniciar sesión.
func (u *User) IsActive() bool { return u != nil && u.Status == UserStatusActive }

// ValidRole informa si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleVendedor
}

// DeletedUser registro de auditoría de un usuario eliminado.
type DeletedUser struct {
	UserID                 string
	Email                  string
	Name                   string
	DeletedAt              time.Time
	DeletedBy              string
	BusinessesReassignedTo string // vacío si no tenía negocios
	BusinessesCount        int
}

// Actor usuario autenticado que ejecuta una operación (viene del JWT).
type Actor struct {
	UserID string
	Name   string
	Role   string
}

// IsAdmin informa si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
