package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
	"github.com/farmavida/farmavida-api/pkg/normalize"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = "id, name, description, price, stock, barcode, category_id, active, created_at, updated_at"

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un item nuevo. name_search guarda el nombre sin tildes para la
// búsqueda del mostrador. Un código de barras repetido devuelve ErrDuplicate.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, name_search, description, price, stock, barcode, category_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, normalize.Fold(item.Name), item.Description, item.Price,
		item.Stock, nullIfEmpty(item.Barcode), nullIfEmpty(item.CategoryID), item.Active,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID. Devuelve nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item")
}

// GetByBarcode obtiene un item por código de barras exacto.
func (r *ItemRepo) GetByBarcode(barcode string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE barcode = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, barcode), "get item by barcode")
}

// GetForUpdate obtiene el item y bloquea la fila (SELECT FOR UPDATE). El lock del
// item serializa los movimientos concurrentes sobre el mismo item.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item for update")
}

// Update actualiza los campos editables del item (no el stock).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET name = $2, name_search = $3, description = $4, price = $5, barcode = $6,
		    category_id = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, normalize.Fold(item.Name), item.Description, item.Price,
		nullIfEmpty(item.Barcode), nullIfEmpty(item.CategoryID), item.Active, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el agregado de stock del item.
func (r *ItemRepo) UpdateStock(id string, stock int64, updatedAt time.Time) error {
	query := `UPDATE items SET stock = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, stock, updatedAt)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Columnas admitidas para ordenar el listado.
var itemSortColumns = map[string]string{
	"id":    "id",
	"name":  "name",
	"stock": "stock",
	"price": "price",
}

// List busca items con filtros opcionales y devuelve también el total sin paginar.
// La búsqueda por texto compara contra name_search (sin tildes), descripción y
// código de barras.
func (r *ItemRepo) List(filter repository.ItemFilter) ([]*entity.Item, int64, error) {
	where := []string{"1=1"}
	args := []any{}
	pos := 1
	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, fmt.Sprintf(
			"(name_search ILIKE $%d OR description ILIKE $%d OR barcode ILIKE $%d)", pos, pos, pos))
		args = append(args, "%"+normalize.Fold(q)+"%")
		pos++
	}
	if filter.MinStock != nil {
		where = append(where, fmt.Sprintf("stock >= $%d", pos))
		args = append(args, *filter.MinStock)
		pos++
	}
	if filter.MaxStock != nil {
		where = append(where, fmt.Sprintf("stock <= $%d", pos))
		args = append(args, *filter.MaxStock)
		pos++
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT count(*) FROM items WHERE ` + whereClause
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	sortCol, ok := itemSortColumns[filter.Sort]
	if !ok {
		sortCol = "id"
	}
	order := "ASC"
	if strings.EqualFold(filter.Order, "DESC") {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM items WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		itemColumns, whereClause, sortCol, order, pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list, err := r.scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock devuelve items activos con stock en o por debajo del umbral.
func (r *ItemRepo) ListLowStock(threshold int64, limit int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items WHERE active AND stock <= $1
		ORDER BY stock ASC, name ASC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

// Delete borra el item. El caller debe haber borrado antes movimientos y lotes.
func (r *ItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.Item, error) {
	var it entity.Item
	var barcode, categoryID *string
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Stock,
		&barcode, &categoryID, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if barcode != nil {
		it.Barcode = *barcode
	}
	if categoryID != nil {
		it.CategoryID = *categoryID
	}
	return &it, nil
}

func (r *ItemRepo) scanRows(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		var barcode, categoryID *string
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Stock,
			&barcode, &categoryID, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if barcode != nil {
			it.Barcode = *barcode
		}
		if categoryID != nil {
			it.CategoryID = *categoryID
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// nullIfEmpty mapea "" a NULL para columnas opcionales con constraint único.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
