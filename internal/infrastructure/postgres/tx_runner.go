package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// Reintentos ante serialization_failure/deadlock antes de rendirse con ErrTxConflict.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o
// Rollback. Ante un conflicto de concurrencia (40001/40P01) reintenta fn completa
// hasta maxTxAttempts veces; agotados los intentos devuelve domain.ErrTxConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || err != domain.ErrTxConflict {
			return err
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx)
	lotRepo := NewLotRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(itemRepo, lotRepo, movRepo); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTxConflict
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrTxConflict
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
