package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBusinessRequest alta de un negocio desde el formulario del pipeline.
// La empresa se busca por nombre y se crea si no existe; si viene algún dato de
// contacto se crea también el contacto.
type CreateBusinessRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	CompanyName    string          `json:"company_name" validate:"required,max=200"`
	TaxID          string          `json:"tax_id"`
	Email          string          `json:"email" validate:"omitempty,email"`
	WhatsApp       string          `json:"whatsapp"`
	LinkedIn       string          `json:"linkedin"`
	TargetPosition string          `json:"target_position"`
	Segment        string          `json:"segment"`
	Region         string          `json:"region"`
	Size           string          `json:"size"`
	Revenue        string          `json:"revenue"`
	Pains          string          `json:"pains"`
	StageID        string          `json:"stage_id"`
	ServiceID      string          `json:"service_id" validate:"required"`
	PlanID         string          `json:"plan_id" validate:"required"`
	SetupFee       decimal.Decimal `json:"setup_fee"`
	Description    string          `json:"description"`
}

// UpdateBusinessRequest edición del detalle: campos del negocio y de la empresa.
// Los punteros nil no se modifican.
type UpdateBusinessRequest struct {
	Name        *string          `json:"name,omitempty"`
	ContactID   *string          `json:"contact_id,omitempty"`
	ServiceID   *string          `json:"service_id,omitempty"`
	PlanID      *string          `json:"plan_id,omitempty"`
	StageID     *string          `json:"stage_id,omitempty"`
	SetupFee    *decimal.Decimal `json:"setup_fee,omitempty"`
	Description *string          `json:"description,omitempty"`
	AssignedTo  *string          `json:"assigned_to,omitempty"`
	Company     *CompanyRequest  `json:"company,omitempty"`
}

// ChangeStageRequest movimiento de una tarjeta en el tablero.
type ChangeStageRequest struct {
	StageID string `json:"stage_id" validate:"required"`
}

// BusinessResponse negocio plano.
type BusinessResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CompanyID   string          `json:"company_id"`
	ContactID   string          `json:"contact_id,omitempty"`
	ServiceID   string          `json:"service_id"`
	PlanID      string          `json:"plan_id"`
	StageID     string          `json:"stage_id"`
	SetupFee    decimal.Decimal `json:"setup_fee"`
	Description string          `json:"description,omitempty"`
	AssignedTo  string          `json:"assigned_to"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BusinessDetailResponse negocio con todo lo que muestra la pantalla de detalle.
type BusinessDetailResponse struct {
	BusinessResponse
	Company      CompanyResponse       `json:"company"`
	Contacts     []ContactResponse     `json:"contacts"`
	AssignedUser *UserResponse         `json:"assigned_user,omitempty"`
	Service      *ServiceResponse      `json:"service,omitempty"`
	Plan         *PlanResponse         `json:"plan,omitempty"`
	Stage        *StageResponse        `json:"stage,omitempty"`
	Interactions []InteractionResponse `json:"interactions"`
}

// BusinessCardResponse tarjeta del tablero.
type BusinessCardResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	StageID        string          `json:"stage_id"`
	AssignedTo     string          `json:"assigned_to"`
	AssignedName   string          `json:"assigned_name,omitempty"`
	CompanyID      string          `json:"company_id"`
	CompanyName    string          `json:"company_name"`
	CompanySegment string          `json:"company_segment,omitempty"`
	CompanyRegion  string          `json:"company_region,omitempty"`
	ContactName    string          `json:"contact_name,omitempty"`
	ContactEmail   string          `json:"contact_email,omitempty"`
	WhatsAppLink   string          `json:"whatsapp_link,omitempty"`
	LinkedIn       string          `json:"linkedin,omitempty"`
	ServiceName    string          `json:"service_name,omitempty"`
	PlanName       string          `json:"plan_name,omitempty"`
	PlanPrice      decimal.Decimal `json:"plan_price"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BoardColumnResponse columna del tablero.
type BoardColumnResponse struct {
	Stage StageResponse          `json:"stage"`
	Count int                    `json:"count"`
	Cards []BusinessCardResponse `json:"cards"`
}

// BoardResponse tablero completo.
type BoardResponse struct {
	Columns []BoardColumnResponse  `json:"columns"`
	Orphans []BusinessCardResponse `json:"orphans"`
	Total   int                    `json:"total"`
}

// CreateInteractionRequest registro manual de una interacción.
type CreateInteractionRequest struct {
	Type        string     `json:"type" validate:"required,oneof=note call email meeting"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// InteractionResponse entrada del historial.
type InteractionResponse struct {
	ID          string            `json:"id"`
	BusinessID  string            `json:"business_id"`
	UserID      string            `json:"user_id"`
	UserName    string            `json:"user_name"`
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
	CreatedAt   time.Time         `json:"created_at"`
}
