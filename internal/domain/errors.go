package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	ErrPasswordMismatch = errors.New("las contraseñas no coinciden")
	ErrWeakPassword     = errors.New("la contraseña debe tener al menos 8 caracteres")
	ErrSelfDelete       = errors.New("no puede eliminar su propia cuenta")
	ErrReassignRequired = errors.New("el usuario tiene negocios asignados: indique a quién reasignarlos")
	ErrStageInactive    = errors.New("la etapa no existe o está inactiva")
	ErrServicePlan      = errors.New("servicio y plan son obligatorios")
)

// ValidationError describe un campo inválido; envuelve ErrInvalidInput para errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
