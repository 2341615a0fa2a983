package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pipeline-crm/internal/application/pipeline"
	"github.com/jhoicas/pipeline-crm/internal/application/usecase"
	"github.com/jhoicas/pipeline-crm/internal/domain/repository"
)

var (
	_ pipeline.TxRunner    = (*TxRunner)(nil)
	_ usecase.UserTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunPipeline transacción con los repos que tocan un negocio: negocio, empresa, contacto e interacciones.
func (r *TxRunner) RunPipeline(ctx context.Context, fn func(
	businessRepo repository.BusinessRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	interactionRepo repository.InteractionRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewBusinessRepository(tx),
			NewCompanyRepository(tx),
			NewContactRepository(tx),
			NewInteractionRepository(tx),
		)
	})
}

// RunUserRemoval transacción de baja de usuario: reasignación, borrado y auditoría.
func (r *TxRunner) RunUserRemoval(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	businessRepo repository.BusinessRepository,
	deletedRepo repository.DeletedUserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewUserRepository(tx),
			NewBusinessRepository(tx),
			NewDeletedUserRepository(tx),
		)
	})
}

// run inicia la transacción, ejecuta fn y hace Commit; ante cualquier error hace Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
