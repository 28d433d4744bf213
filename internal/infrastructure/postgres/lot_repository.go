package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = "id, item_id, code, expiry, stock, created_at, updated_at"

// Orden FEFO: caducidad no nula primero, caducidad ascendente, ID como desempate.
// Es también el orden de adquisición de locks en ListByItemForUpdate; mantenerlo
// estable evita deadlocks entre salidas concurrentes del mismo item.
const fefoOrder = "ORDER BY (expiry IS NULL), expiry ASC, id ASC"

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// La clave natural (item_id, code, expiry) con nulos como valor propio está
// respaldada por un índice único sobre (item_id, COALESCE(code,''),
// COALESCE(expiry,'infinity')).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// GetByKeyForUpdate busca el lote por su clave natural exacta (nulos incluidos)
// y bloquea la fila. Devuelve nil si no existe.
func (r *LotRepo) GetByKeyForUpdate(itemID string, code *string, expiry *time.Time) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + `
		FROM lots
		WHERE item_id = $1 AND code IS NOT DISTINCT FROM $2 AND expiry IS NOT DISTINCT FROM $3
		FOR UPDATE`
	var l entity.Lot
	err := r.q.QueryRow(context.Background(), query, itemID, code, expiry).Scan(
		&l.ID, &l.ItemID, &l.Code, &l.Expiry, &l.Stock, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot by key: %w", err)
	}
	return &l, nil
}

// Create inserta un lote nuevo. Una clave natural ya tomada (entrada concurrente
// sobre la misma tripleta) no inserta nada y devuelve ErrDuplicate para que el
// caller relea la fila ganadora. El ON CONFLICT evita abortar la transacción en
// curso, cosa que un 23505 crudo sí haría.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, item_id, code, expiry, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (item_id, COALESCE(code, ''), COALESCE(expiry, 'infinity'::date)) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.ItemID, lot.Code, lot.Expiry, lot.Stock, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// UpdateStock fija el stock del lote.
func (r *LotRepo) UpdateStock(id string, stock int64, updatedAt time.Time) error {
	query := `UPDATE lots SET stock = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, stock, updatedAt)
	if err != nil {
		return fmt.Errorf("update lot stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByItemForUpdate devuelve los lotes del item en orden FEFO bloqueando las filas.
func (r *LotRepo) ListByItemForUpdate(itemID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE item_id = $1 ` + fefoOrder + ` FOR UPDATE`
	return r.list(query, itemID)
}

// ListByItem devuelve los lotes del item en orden FEFO, sin lock (lecturas).
func (r *LotRepo) ListByItem(itemID string) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE item_id = $1 ` + fefoOrder
	return r.list(query, itemID)
}

// ListExpiringBefore devuelve lotes con stock cuya caducidad es anterior o igual a
// limitDate, con el nombre del item, ordenados por caducidad ascendente.
func (r *LotRepo) ListExpiringBefore(limitDate time.Time, limit int) ([]repository.ExpiringLot, error) {
	query := `
		SELECT l.id, l.item_id, l.code, l.expiry, l.stock, l.created_at, l.updated_at, i.name
		FROM lots l
		JOIN items i ON i.id = l.item_id
		WHERE l.expiry IS NOT NULL AND l.expiry <= $1 AND l.stock > 0
		ORDER BY l.expiry ASC, l.id ASC
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, limitDate, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring lots: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpiringLot
	for rows.Next() {
		var l entity.Lot
		var itemName string
		if err := rows.Scan(&l.ID, &l.ItemID, &l.Code, &l.Expiry, &l.Stock,
			&l.CreatedAt, &l.UpdatedAt, &itemName); err != nil {
			return nil, fmt.Errorf("scan expiring lot: %w", err)
		}
		list = append(list, repository.ExpiringLot{Lot: &l, ItemName: itemName})
	}
	return list, rows.Err()
}

// DeleteByItem borra todos los lotes del item (cascada del borrado de item).
func (r *LotRepo) DeleteByItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM lots WHERE item_id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete lots by item: %w", err)
	}
	return nil
}

func (r *LotRepo) list(query string, args ...any) ([]*entity.Lot, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.ItemID, &l.Code, &l.Expiry, &l.Stock,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
