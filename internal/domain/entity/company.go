package entity

import "time"

// Company empresa cliente o prospecto. NameKey es el nombre normalizado
// (minúsculas, sin acentos) y es único: evita duplicados al crear negocios.
type Company struct {
	ID        string
	Name      string
	NameKey   string
	TaxID     string // CNPJ
	Segment   string
	Region    string
	Size      string
	Revenue   string
	Pains     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact persona de contacto dentro de una Company.
type Contact struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	WhatsApp  string
	LinkedIn  string
	Position  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
