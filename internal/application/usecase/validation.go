package usecase

import (
	"net/mail"
	"strings"

	"github.com/jhoicas/pipeline-crm/internal/domain"
)

// ValidEmail acepta solo direcciones simples (sin nombre visible).
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Invalid(field, "es obligatorio")
	}
	return nil
}

func optionalEmail(field, value string) error {
	if value != "" && !ValidEmail(value) {
		return domain.Invalid(field, "email inválido")
	}
	return nil
}

// clampLimit aplica el valor por defecto y el máximo a un limit de query.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
