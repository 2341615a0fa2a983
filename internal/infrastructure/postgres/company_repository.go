package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.ContactRepository = (*ContactRepo)(nil)
)

const companyColumns = `id, name, name_key, tax_id, segment, region, size, revenue, pains, created_by, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa. name_key es único: un choque devuelve ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.NameKey, c.TaxID, c.Segment, c.Region, c.Size, c.Revenue, c.Pains,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByNameKey busca por nombre normalizado.
func (r *CompanyRepo) GetByNameKey(ctx context.Context, key string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE name_key = $1`, key)
}

// Update actualiza los datos de una empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, name_key = $3, tax_id = $4, segment = $5, region = $6,
			size = $7, revenue = $8, pains = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.NameKey, c.TaxID, c.Segment, c.Region, c.Size, c.Revenue, c.Pains, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search autocompletado: name_key contiene key, ordenado por nombre.
func (r *CompanyRepo) Search(ctx context.Context, key string, limit int) ([]*entity.Company, error) {
	query := `
		SELECT ` + companyColumns + ` FROM companies
		WHERE $1 = '' OR name_key LIKE $2
		ORDER BY name
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, key, containsPattern(key), limit)
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	defer rows.Close()
	list := []*entity.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CompanyRepo) getOne(ctx context.Context, query string, arg string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func scanCompany(s pgxScanner) (*entity.Company, error) {
	var c entity.Company
	if err := s.Scan(
		&c.ID, &c.Name, &c.NameKey, &c.TaxID, &c.Segment, &c.Region, &c.Size, &c.Revenue, &c.Pains,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// ── Contactos ────────────────────────────────────────────────────────────────

const contactColumns = `id, company_id, name, email, whatsapp, linkedin, position, created_at, updated_at`

// ContactRepo contactos de una empresa.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Name, c.Email, c.WhatsApp, c.LinkedIn, c.Position, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// ListByCompany contactos de la empresa en orden de alta.
func (r *ContactRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Contact, error) {
	rows, err := r.q.Query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE company_id = $1 ORDER BY created_at`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	list := []*entity.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts SET name = $2, email = $3, whatsapp = $4, linkedin = $5, position = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Email, c.WhatsApp, c.LinkedIn, c.Position, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el contacto; los negocios que lo usaban quedan sin contacto (ON DELETE SET NULL).
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanContact(s pgxScanner) (*entity.Contact, error) {
	var c entity.Contact
	if err := s.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.WhatsApp, &c.LinkedIn, &c.Position, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
