package repository

import (
	"context"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetByNameKey busca por nombre normalizado (ver textnorm.Fold).
	GetByNameKey(ctx context.Context, key string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	// Search devuelve las empresas cuyo name_key contiene key; key vacío lista todas.
	Search(ctx context.Context, key string, limit int) ([]*entity.Company, error)
}

// ContactRepository persistencia de contactos de una empresa.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id string) error
}
