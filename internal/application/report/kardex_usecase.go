package report

import (
	"context"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// Tamaño máximo del kardex exportado: listado plano, sin agregaciones.
const kardexMovementCap = 500

// KardexPDFGenerator puerto de generación del PDF del kardex de un item.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, item *entity.Item, movements []*entity.Movement, lots []*entity.Lot) ([]byte, error)
}

// KardexUseCase exporta el kardex (historial de movimientos) de un item como PDF.
type KardexUseCase struct {
	itemRepo  repository.ItemRepository
	lotRepo   repository.LotRepository
	movRepo   repository.MovementRepository
	generator KardexPDFGenerator
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	generator KardexPDFGenerator,
) *KardexUseCase {
	return &KardexUseCase{itemRepo: itemRepo, lotRepo: lotRepo, movRepo: movRepo, generator: generator}
}

// GenerateKardex devuelve los bytes del PDF con los últimos movimientos del item.
func (uc *KardexUseCase) GenerateKardex(ctx context.Context, itemID string) ([]byte, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movRepo.List(repository.MovementFilter{
		ItemID: itemID,
		Limit:  kardexMovementCap,
	})
	if err != nil {
		return nil, err
	}
	lots, err := uc.lotRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateKardexPDF(ctx, item, movements, lots)
}
