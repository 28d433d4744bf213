package repository

import (
	"time"

	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// MovementFilter filtros para el listado de movimientos.
type MovementFilter struct {
	ItemID string
	Kind   string // entry | exit; vacío = ambos
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia del historial de movimientos.
// Los movimientos son append-only: no hay Update; DeleteByItem existe únicamente
// para el borrado en cascada del item.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// List devuelve movimientos en orden cronológico descendente, acotado por
	// filter.Limit (el adaptador aplica un tope máximo).
	List(filter MovementFilter) ([]*entity.Movement, error)
	DeleteByItem(itemID string) error
}
