package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceRequest entrada para crear o editar un servicio. Active nil = sin cambio (true al crear).
type ServiceRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Active      *bool  `json:"active,omitempty"`
}

// PlanRequest entrada para crear o editar un plan.
type PlanRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Duration string          `json:"duration"`
	Features []string        `json:"features"`
	Active   *bool           `json:"active,omitempty"`
}

// ServiceResponse servicio con sus planes.
type ServiceResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Active      bool           `json:"active"`
	Plans       []PlanResponse `json:"plans"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PlanResponse salida de un plan.
type PlanResponse struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"service_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Duration  string          `json:"duration,omitempty"`
	Features  []string        `json:"features"`
	Active    bool            `json:"active"`
}

// StageRequest entrada para crear o editar una etapa del pipeline.
type StageRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Color    string `json:"color"`
	Position int    `json:"position"`
	Kind     string `json:"kind" validate:"omitempty,oneof=open won lost"`
	Active   *bool  `json:"active,omitempty"`
}

// StageResponse salida de una etapa.
type StageResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Position int    `json:"position"`
	Kind     string `json:"kind"`
	Active   bool   `json:"active"`
}
