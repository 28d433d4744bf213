package inventory

import (
	"context"
	"time"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// Límites del listado de movimientos: nunca se devuelven resultados sin acotar.
const (
	defaultMovementPageSize = 50
	maxMovementPageSize     = 100
)

// ListMovementsUseCase consulta el historial de movimientos (solo lectura, fuera
// de transacción).
type ListMovementsUseCase struct {
	movRepo repository.MovementRepository
}

// NewListMovementsUseCase construye el caso de uso.
func NewListMovementsUseCase(movRepo repository.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{movRepo: movRepo}
}

// ListMovementsInput filtros del listado. Kind vacío = entradas y salidas.
type ListMovementsInput struct {
	ItemID string
	Kind   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListMovements devuelve movimientos en orden cronológico descendente.
func (uc *ListMovementsUseCase) ListMovements(_ context.Context, input ListMovementsInput) ([]*entity.Movement, error) {
	if input.Kind != "" && input.Kind != entity.MovementKindEntry && input.Kind != entity.MovementKindExit {
		return nil, domain.ErrInvalidInput
	}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, domain.ErrInvalidInput
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultMovementPageSize
	}
	if limit > maxMovementPageSize {
		limit = maxMovementPageSize
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	return uc.movRepo.List(repository.MovementFilter{
		ItemID: input.ItemID,
		Kind:   input.Kind,
		From:   input.From,
		To:     input.To,
		Limit:  limit,
		Offset: offset,
	})
}
