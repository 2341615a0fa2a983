package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/pipeline-crm/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica las migraciones embebidas (esquema y etapas por defecto) sobre el pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log.Named("migrate")})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	log.Info().Int64("version", version).Msg("migraciones aplicadas")
	return nil
}

// gooseLogger redirige la salida de goose a zerolog.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
