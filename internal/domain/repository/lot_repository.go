package repository

import (
	"time"

	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// ExpiringLot lote próximo a caducar, con el nombre del item para el reporte de alertas.
type ExpiringLot struct {
	Lot      *entity.Lot
	ItemName string
}

// LotRepository define el puerto de persistencia para los lotes de un item.
// La clave natural es (item, código, caducidad) con nulos como valor propio:
// code y expiry se comparan con semántica IS NOT DISTINCT FROM.
type LotRepository interface {
	// GetByKeyForUpdate busca el lote por su clave natural exacta y bloquea la fila.
	// Devuelve nil (sin error) si no existe.
	GetByKeyForUpdate(itemID string, code *string, expiry *time.Time) (*entity.Lot, error)
	// Create inserta un lote nuevo con el stock indicado. La unicidad de la clave
	// natural la garantiza la base de datos; si la clave ya existe no se inserta
	// nada y se devuelve domain.ErrDuplicate, sin invalidar la transacción en
	// curso, para que el caller relea la fila ganadora.
	Create(lot *entity.Lot) error
	// UpdateStock fija el stock del lote y su marca de actualización.
	UpdateStock(id string, stock int64, updatedAt time.Time) error
	// ListByItemForUpdate devuelve todos los lotes del item en orden FEFO
	// (caducidad no nula primero, caducidad ascendente, ID ascendente) bloqueando
	// las filas. El orden estable también fija el orden de adquisición de locks.
	ListByItemForUpdate(itemID string) ([]*entity.Lot, error)
	ListByItem(itemID string) ([]*entity.Lot, error)
	ListExpiringBefore(limitDate time.Time, limit int) ([]ExpiringLot, error)
	DeleteByItem(itemID string) error
}
