package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ repository.BusinessRepository    = (*BusinessRepo)(nil)
	_ repository.InteractionRepository = (*InteractionRepo)(nil)
)

const businessColumns = `id, name, company_id, contact_id, service_id, plan_id, stage_id, setup_fee,
	description, assigned_to, created_by, created_at, updated_at`

// BusinessRepo negocios del pipeline.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste el negocio. Una FK rota (empresa, plan, etapa, usuario) es un error de entrada.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.CompanyID, nullIfEmpty(b.ContactID), b.ServiceID, b.PlanID, b.StageID, b.SetupFee,
		b.Description, b.AssignedTo, b.CreatedBy, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referencia inexistente: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	b, err := scanBusiness(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	query := `
		UPDATE businesses SET name = $2, contact_id = $3, service_id = $4, plan_id = $5, stage_id = $6,
			setup_fee = $7, description = $8, assigned_to = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.Name, nullIfEmpty(b.ContactID), b.ServiceID, b.PlanID, b.StageID,
		b.SetupFee, b.Description, b.AssignedTo, b.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referencia inexistente: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStage solo etapa y updated_at (arrastrar en el tablero).
func (r *BusinessRepo) UpdateStage(ctx context.Context, id, stageID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE businesses SET stage_id = $2, updated_at = $3 WHERE id = $1`, id, stageID, at)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrStageInactive
		}
		return fmt.Errorf("update business stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el negocio; las interacciones caen en cascada.
func (r *BusinessRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List negocios visibles según el filtro, más recientes primero.
func (r *BusinessRepo) List(ctx context.Context, f repository.BusinessFilter) ([]*entity.Business, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+businessColumns+` FROM businesses
		WHERE ($1 = '' OR assigned_to::text = $1)
		ORDER BY updated_at DESC`, f.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	list := []*entity.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListCards proyección del tablero: una sola consulta con los datos de empresa,
// contacto, servicio, plan y responsable.
func (r *BusinessRepo) ListCards(ctx context.Context, f repository.BusinessFilter) ([]entity.BusinessCard, error) {
	query := `
		SELECT b.id, b.name, b.stage_id, b.assigned_to, COALESCE(u.name, ''),
			b.company_id, COALESCE(c.name, ''), COALESCE(c.segment, ''), COALESCE(c.region, ''),
			COALESCE(k.name, ''), COALESCE(k.email, ''), COALESCE(k.whatsapp, ''), COALESCE(k.linkedin, ''),
			COALESCE(s.name, ''), COALESCE(p.name, ''), COALESCE(p.price, 0),
			b.setup_fee, b.created_at, b.updated_at
		FROM businesses b
		LEFT JOIN users u     ON u.id = b.assigned_to
		LEFT JOIN companies c ON c.id = b.company_id
		LEFT JOIN contacts k  ON k.id = b.contact_id
		LEFT JOIN services s  ON s.id = b.service_id
		LEFT JOIN plans p     ON p.id = b.plan_id
		WHERE ($1 = '' OR b.assigned_to::text = $1)
		ORDER BY b.updated_at DESC`
	rows, err := r.q.Query(ctx, query, f.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("list business cards: %w", err)
	}
	defer rows.Close()
	list := []entity.BusinessCard{}
	for rows.Next() {
		var c entity.BusinessCard
		if err := rows.Scan(
			&c.ID, &c.Name, &c.StageID, &c.AssignedTo, &c.AssignedName,
			&c.CompanyID, &c.CompanyName, &c.CompanySegment, &c.CompanyRegion,
			&c.ContactName, &c.ContactEmail, &c.ContactWhatsApp, &c.ContactLinkedIn,
			&c.ServiceName, &c.PlanName, &c.PlanPrice,
			&c.SetupFee, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan business card: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *BusinessRepo) CountByAssignee(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM businesses WHERE assigned_to = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return n, nil
}

// Reassign mueve todos los negocios de from a to.
func (r *BusinessRepo) Reassign(ctx context.Context, from, to string, at time.Time) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		UPDATE businesses SET assigned_to = $2, updated_at = $3
		WHERE assigned_to = $1
		RETURNING id`, from, to, at)
	if err != nil {
		return nil, fmt.Errorf("reassign businesses: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("reassign businesses: %w", err)
	}
	return ids, nil
}

func scanBusiness(s pgxScanner) (*entity.Business, error) {
	var b entity.Business
	var contactID *string
	if err := s.Scan(
		&b.ID, &b.Name, &b.CompanyID, &contactID, &b.ServiceID, &b.PlanID, &b.StageID, &b.SetupFee,
		&b.Description, &b.AssignedTo, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.ContactID = derefString(contactID)
	return &b, nil
}

// ── Interacciones ────────────────────────────────────────────────────────────

// InteractionRepo historial de un negocio.
type InteractionRepo struct {
	q Querier
}

// NewInteractionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInteractionRepository(q Querier) *InteractionRepo {
	return &InteractionRepo{q: q}
}

func (r *InteractionRepo) Create(ctx context.Context, i *entity.Interaction) error {
	metadata := i.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO interactions (id, business_id, user_id, user_name, type, title, description, metadata, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		i.ID, i.BusinessID, i.UserID, i.UserName, i.Type, i.Title, i.Description, metadata, i.OccurredAt, i.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// ListByBusiness más recientes primero.
func (r *InteractionRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.Interaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, business_id, user_id, user_name, type, title, description, metadata, occurred_at, created_at
		FROM interactions WHERE business_id = $1
		ORDER BY created_at DESC, occurred_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()
	list := []*entity.Interaction{}
	for rows.Next() {
		var i entity.Interaction
		if err := rows.Scan(
			&i.ID, &i.BusinessID, &i.UserID, &i.UserName, &i.Type, &i.Title, &i.Description,
			&i.Metadata, &i.OccurredAt, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
