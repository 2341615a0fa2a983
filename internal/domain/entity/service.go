package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service servicio ofrecido por la empresa (ej. "Consultoría de datos").
type Service struct {
	ID          string
	Name        string
	Description string
	Active      bool
	Plans       []Plan
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Plan oferta con precio asociada a un Service.
type Plan struct {
	ID        string
	ServiceID string
	Name      string
	Price     decimal.Decimal
	Duration  string // ej. "3 meses"
	Features  []string
	Active    bool
}

// PlanByID busca un plan del servicio; nil si no pertenece a él.
func (s *Service) PlanByID(id string) *Plan {
	for i := range s.Plans {
		if s.Plans[i].ID == id {
			return &s.Plans[i]
		}
	}
	return nil
}

// ActivePlans devuelve solo los planes activos.
func (s *Service) ActivePlans() []Plan {
	out := make([]Plan, 0, len(s.Plans))
	for _, p := range s.Plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
