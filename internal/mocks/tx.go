package mocks

import (
	"context"
	"sync"

	"github.com/jhoicas/pipeline-crm/internal/domain/entity"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

// TxRunner ejecuta los callbacks transaccionales directamente sobre los mocks
// y cuenta cuántas transacciones se abrieron.
type TxRunner struct {
	Users        *UserRepository
	Deleted      *DeletedUserRepository
	Businesses   *BusinessRepository
	Companies    *CompanyRepository
	Contacts     *ContactRepository
	Interactions *InteractionRepository
	Calls        int
}

func (r *TxRunner) RunPipeline(ctx context.Context, fn func(
	businessRepo repository.BusinessRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	interactionRepo repository.InteractionRepository,
) error) error {
	r.Calls++
	return fn(r.Businesses, r.Companies, r.Contacts, r.Interactions)
}

func (r *TxRunner) RunUserRemoval(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	deletedRepo repository.DeletedUserRepository,
) error) error {
	r.Calls++
	return fn(r.Users, r.Businesses, r.Deleted)
}

// Publisher guarda los eventos publicados.
type Publisher struct {
	mu     sync.Mutex
	events []entity.PipelineEvent
	Err    error
}

func (p *Publisher) Publish(_ context.Context, ev entity.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.Err
}

// Events copia de los eventos recibidos.
func (p *Publisher) Events() []entity.PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.PipelineEvent, len(p.events))
	copy(out, p.events)
	return out
}
