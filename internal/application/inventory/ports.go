package inventory

import (
	"context"

	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza la atomicidad de cada movimiento: o se confirman todas
// las mutaciones de item, lotes y movimientos, o ninguna. La implementación puede
// reintentar fn completa ante conflictos de serialización, por lo que fn debe ser
// idempotente respecto a estado externo a la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error) error
}
