package repository

import (
	"time"

	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// ItemFilter criterios de búsqueda para el listado de items.
type ItemFilter struct {
	Query    string // busca en nombre normalizado, descripción y código de barras
	MinStock *int64
	MaxStock *int64
	Sort     string // id, name, stock, price
	Order    string // ASC | DESC
	Limit    int
	Offset   int
}

// ItemRepository define el puerto de persistencia para Item.
// Los métodos *ForUpdate bloquean la fila (SELECT FOR UPDATE) y solo tienen
// sentido dentro de una transacción.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByBarcode(barcode string) (*entity.Item, error)
	GetForUpdate(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	// UpdateStock fija el agregado de stock del item y su marca de actualización.
	// Debe invocarse en la misma transacción que la mutación de lotes
	// correspondiente.
	UpdateStock(id string, stock int64, updatedAt time.Time) error
	List(filter ItemFilter) ([]*entity.Item, int64, error)
	ListLowStock(threshold int64, limit int) ([]*entity.Item, error)
	Delete(id string) error
}
