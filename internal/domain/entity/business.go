package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business negocio (oportunidad) de una Company; es la tarjeta del tablero.
type Business struct {
	ID          string
	Name        string
	CompanyID   string
	ContactID   string // opcional
	ServiceID   string
	PlanID      string
	StageID     string
	SetupFee    decimal.Decimal
	Description string
	AssignedTo  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BusinessCard proyección de lectura para el tablero: negocio más los datos
// de empresa, contacto principal, servicio y plan ya resueltos.
type BusinessCard struct {
	ID              string
	Name            string
	StageID         string
	AssignedTo      string
	AssignedName    string
	CompanyID       string
	CompanyName     string
	CompanySegment  string
	CompanyRegion   string
	ContactName     string
	ContactEmail    string
	ContactWhatsApp string
	ContactLinkedIn string
	ServiceName     string
	PlanName        string
	PlanPrice       decimal.Decimal
	SetupFee        decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
