package dto

import "time"

// CompanyRequest entrada para crear o editar una empresa.
type CompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	TaxID   string `json:"tax_id"`
	Segment string `json:"segment"`
	Region  string `json:"region"`
	Size    string `json:"size"`
	Revenue string `json:"revenue"`
	Pains   string `json:"pains"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Segment   string    `json:"segment,omitempty"`
	Region    string    `json:"region,omitempty"`
	Size      string    `json:"size,omitempty"`
	Revenue   string    `json:"revenue,omitempty"`
	Pains     string    `json:"pains,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyDetailResponse empresa con sus contactos.
type CompanyDetailResponse struct {
	CompanyResponse
	Contacts []ContactResponse `json:"contacts"`
}

// ContactRequest entrada para crear o editar un contacto.
type ContactRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	WhatsApp string `json:"whatsapp"`
	LinkedIn string `json:"linkedin"`
	Position string `json:"position"`
}

// ContactResponse salida de un contacto; WhatsAppLink listo para abrir.
type ContactResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	WhatsApp     string    `json:"whatsapp,omitempty"`
	WhatsAppLink string    `json:"whatsapp_link,omitempty"`
	LinkedIn     string    `json:"linkedin,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
