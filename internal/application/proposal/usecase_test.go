package proposal

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pipeline-crm/internal/domain"
	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/mocks"
)

type fakeGenerator struct {
	got Document
}

func (g *fakeGenerator) GenerateProposalPDF(_ context.Context, doc Document) ([]byte, error) {
	g.got = doc
	return []byte("%PDF-fake"), nil
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	businesses := new(mocks.BusinessRepository)
	companies := new(mocks.CompanyRepository)
	contacts := new(mocks.ContactRepository)
	services := new(mocks.ServiceRepository)
	users := new(mocks.UserRepository)
	gen := &fakeGenerator{}
	uc := NewUseCase(businesses, companies, contacts, services, users, gen)

	businesses.On("GetByID", ctx, "b1").Return(&entity.Business{
		ID: "b1", CompanyID: "c1", ContactID: "k1", ServiceID: "s1", PlanID: "p1",
		AssignedTo: "u1", SetupFee: decimal.RequireFromString("250.50"),
	}, nil)
	companies.On("GetByID", ctx, "c1").Return(&entity.Company{ID: "c1", Name: "Açaí Comércio Ltda"}, nil)
	contacts.On("GetByID", ctx, "k1").Return(&entity.Contact{ID: "k1", Name: "Carla"}, nil)
	services.On("GetByID", ctx, "s1").Return(&entity.Service{ID: "s1", Name: "BI", Plans: []entity.Plan{
		{ID: "p1", Name: "Pro", Price: decimal.NewFromInt(1500)},
	}}, nil)
	users.On("GetByID", ctx, "u1").Return(&entity.User{ID: "u1", Name: "Ana"}, nil)

	_, _, err := uc.Download(ctx, entity.Actor{UserID: "u2", Role: entity.RoleVendedor}, "b1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, filename, err := uc.Download(ctx, entity.Actor{UserID: "u1", Role: entity.RoleVendedor}, "b1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Equal(t, "proposta_acai-comercio-ltda.pdf", filename)
	assert.True(t, decimal.RequireFromString("1750.50").Equal(gen.got.Total))
	assert.Equal(t, "Ana", gen.got.SellerName)
	assert.Equal(t, "Carla", gen.got.Contact.Name)
}

func TestDownload_PlanEliminado(t *testing.T) {
	ctx := context.Background()
	businesses := new(mocks.BusinessRepository)
	companies := new(mocks.CompanyRepository)
	services := new(mocks.ServiceRepository)
	uc := NewUseCase(businesses, companies, new(mocks.ContactRepository), services, new(mocks.UserRepository), &fakeGenerator{})

	businesses.On("GetByID", ctx, "b1").Return(&entity.Business{ID: "b1", CompanyID: "c1", ServiceID: "s1", PlanID: "gone", AssignedTo: "u1"}, nil)
	businesses.On("GetByID", ctx, "nope").Return(nil, nil)
	companies.On("GetByID", ctx, "c1").Return(&entity.Company{ID: "c1", Name: "Acme"}, nil)
	services.On("GetByID", ctx, "s1").Return(&entity.Service{ID: "s1"}, nil)

	admin := entity.Actor{UserID: "a1", Role: entity.RoleAdmin}
	_, _, err := uc.Download(ctx, admin, "b1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.Download(ctx, admin, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_ErrorAlCargarVendedor(t *testing.T) {
	ctx := context.Background()
	businesses := new(mocks.BusinessRepository)
	companies := new(mocks.CompanyRepository)
	services := new(mocks.ServiceRepository)
	users := new(mocks.UserRepository)
	gen := &fakeGenerator{}
	uc := NewUseCase(businesses, companies, new(mocks.ContactRepository), services, users, gen)

	businesses.On("GetByID", ctx, "b1").Return(&entity.Business{ID: "b1", CompanyID: "c1", ServiceID: "s1", PlanID: "p1", AssignedTo: "u1"}, nil)
	companies.On("GetByID", ctx, "c1").Return(&entity.Company{ID: "c1", Name: "Acme"}, nil)
	services.On("GetByID", ctx, "s1").Return(&entity.Service{ID: "s1", Plans: []entity.Plan{
		{ID: "p1", Name: "Pro", Price: decimal.NewFromInt(100)},
	}}, nil)
	dbErr := errors.New("conexión perdida")
	users.On("GetByID", ctx, "u1").Return(nil, dbErr)

	out, _, err := uc.Download(ctx, entity.Actor{UserID: "a1", Role: entity.RoleAdmin}, "b1")
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, out)
	assert.Empty(t, gen.got.SellerName, "no se genera el PDF con el UUID como nombre")
}
