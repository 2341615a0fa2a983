// Package mocks contiene dobles de prueba (testify/mock) de los puertos de persistencia.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.DeletedUserRepository = (*DeletedUserRepository)(nil)
	_ repository.CompanyRepository     = (*CompanyRepository)(nil)
	_ repository.ContactRepository     = (*ContactRepository)(nil)
	_ repository.ServiceRepository     = (*ServiceRepository)(nil)
	_ repository.StageRepository       = (*StageRepository)(nil)
	_ repository.BusinessRepository    = (*BusinessRepository)(nil)
	_ repository.InteractionRepository = (*InteractionRepository)(nil)
)

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return m.Called(ctx, id, hash, at).Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *UserRepository) ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type DeletedUserRepository struct{ mock.Mock }

func (m *DeletedUserRepository) Create(ctx context.Context, d *entity.DeletedUser) error {
	return m.Called(ctx, d).Error(0)
}

// ── Companies / contacts ─────────────────────────────────────────────────────

type CompanyRepository struct{ mock.Mock }

func (m *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}

func (m *CompanyRepository) GetByNameKey(ctx context.Context, key string) (*entity.Company, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}

func (m *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CompanyRepository) Search(ctx context.Context, key string, limit int) ([]*entity.Company, error) {
	args := m.Called(ctx, key, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Company), args.Error(1)
}

type ContactRepository struct{ mock.Mock }

func (m *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *ContactRepository) ListByCompany(ctx context.Context, companyID string) ([]*entity.Contact, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Contact), args.Error(1)
}

func (m *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *ContactRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ── Catálogo ─────────────────────────────────────────────────────────────────

type ServiceRepository struct{ mock.Mock }

func (m *ServiceRepository) Create(ctx context.Context, s *entity.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *ServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *ServiceRepository) List(ctx context.Context) ([]*entity.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Service), args.Error(1)
}

func (m *ServiceRepository) Update(ctx context.Context, s *entity.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *ServiceRepository) CreatePlan(ctx context.Context, p *entity.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ServiceRepository) UpdatePlan(ctx context.Context, p *entity.Plan) error {
	return m.Called(ctx, p).Error(0)
}

type StageRepository struct{ mock.Mock }

func (m *StageRepository) List(ctx context.Context) ([]entity.PipelineStage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PipelineStage), args.Error(1)
}

func (m *StageRepository) GetByID(ctx context.Context, id string) (*entity.PipelineStage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PipelineStage), args.Error(1)
}

func (m *StageRepository) Create(ctx context.Context, s *entity.PipelineStage) error {
	return m.Called(ctx, s).Error(0)
}

func (m *StageRepository) Update(ctx context.Context, s *entity.PipelineStage) error {
	return m.Called(ctx, s).Error(0)
}

// ── Negocios / interacciones ─────────────────────────────────────────────────

type BusinessRepository struct{ mock.Mock }

func (m *BusinessRepository) Create(ctx context.Context, b *entity.Business) error {
	return m.Called(ctx, b).Error(0)
}

func (m *BusinessRepository) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *BusinessRepository) Update(ctx context.Context, b *entity.Business) error {
	return m.Called(ctx, b).Error(0)
}

func (m *BusinessRepository) UpdateStage(ctx context.Context, id, stageID string, at time.Time) error {
	return m.Called(ctx, id, stageID, at).Error(0)
}

func (m *BusinessRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BusinessRepository) List(ctx context.Context, f repository.BusinessFilter) ([]*entity.Business, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Business), args.Error(1)
}

func (m *BusinessRepository) ListCards(ctx context.Context, f repository.BusinessFilter) ([]entity.BusinessCard, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BusinessCard), args.Error(1)
}

func (m *BusinessRepository) CountByAssignee(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *BusinessRepository) Reassign(ctx context.Context, from, to string, at time.Time) ([]string, error) {
	args := m.Called(ctx, from, to, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type InteractionRepository struct{ mock.Mock }

func (m *InteractionRepository) Create(ctx context.Context, i *entity.Interaction) error {
	return m.Called(ctx, i).Error(0)
}

func (m *InteractionRepository) ListByBusiness(ctx context.Context, businessID string) ([]*entity.Interaction, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Interaction), args.Error(1)
}
