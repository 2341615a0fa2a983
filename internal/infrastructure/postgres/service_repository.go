package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
	_ repository.StageRepository   = (*StageRepo)(nil)
)

// ServiceRepo catálogo de servicios con sus planes.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	query := `
		INSERT INTO services (id, name, description, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Description, s.Active, s.CreatedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	for i := range s.Plans {
		s.Plans[i].ServiceID = s.ID
		if err := r.CreatePlan(ctx, &s.Plans[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID servicio con todos sus planes; nil, nil si no existe.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	var s entity.Service
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM services WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	plans, err := r.plans(ctx, `WHERE service_id = $1`, id)
	if err != nil {
		return nil, err
	}
	s.Plans = plans[s.ID]
	if s.Plans == nil {
		s.Plans = []entity.Plan{}
	}
	return &s, nil
}

// List todos los servicios (activos e inactivos) por nombre, cada uno con sus planes.
func (r *ServiceRepo) List(ctx context.Context) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	list := []*entity.Service{}
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	plans, err := r.plans(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Plans = plans[s.ID]
		if s.Plans == nil {
			s.Plans = []entity.Plan{}
		}
	}
	return list, nil
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE services SET name = $2, description = $3, active = $4, updated_at = $5
		WHERE id = $1`, s.ID, s.Name, s.Description, s.Active, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceRepo) CreatePlan(ctx context.Context, p *entity.Plan) error {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO plans (id, service_id, name, price, duration, features, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ServiceID, p.Name, p.Price, p.Duration, features, p.Active,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (r *ServiceRepo) UpdatePlan(ctx context.Context, p *entity.Plan) error {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE plans SET name = $3, price = $4, duration = $5, features = $6, active = $7
		WHERE id = $1 AND service_id = $2`,
		p.ID, p.ServiceID, p.Name, p.Price, p.Duration, features, p.Active,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// plans carga planes agrupados por service_id, en orden de precio.
func (r *ServiceRepo) plans(ctx context.Context, where string, args ...any) (map[string][]entity.Plan, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, service_id, name, price, duration, features, active
		FROM plans `+where+` ORDER BY price, name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	out := map[string][]entity.Plan{}
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.Name, &p.Price, &p.Duration, &p.Features, &p.Active); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out[p.ServiceID] = append(out[p.ServiceID], p)
	}
	return out, rows.Err()
}

// ── Etapas ───────────────────────────────────────────────────────────────────

// StageRepo etapas del pipeline.
type StageRepo struct {
	q Querier
}

// NewStageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStageRepository(q Querier) *StageRepo {
	return &StageRepo{q: q}
}

// List todas las etapas ordenadas por position.
func (r *StageRepo) List(ctx context.Context) ([]entity.PipelineStage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, color, position, kind, active
		FROM pipeline_stages ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()
	list := []entity.PipelineStage{}
	for rows.Next() {
		var s entity.PipelineStage
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Position, &s.Kind, &s.Active); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StageRepo) GetByID(ctx context.Context, id string) (*entity.PipelineStage, error) {
	var s entity.PipelineStage
	err := r.q.QueryRow(ctx, `
		SELECT id, name, color, position, kind, active
		FROM pipeline_stages WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Color, &s.Position, &s.Kind, &s.Active)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stage: %w", err)
	}
	return &s, nil
}

func (r *StageRepo) Create(ctx context.Context, s *entity.PipelineStage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pipeline_stages (id, name, color, position, kind, active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Color, s.Position, s.Kind, s.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stage: %w", err)
	}
	return nil
}

func (r *StageRepo) Update(ctx context.Context, s *entity.PipelineStage) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE pipeline_stages SET name = $2, color = $3, position = $4, kind = $5, active = $6
		WHERE id = $1`,
		s.ID, s.Name, s.Color, s.Position, s.Kind, s.Active,
	)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
