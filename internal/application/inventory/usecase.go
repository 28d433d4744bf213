package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	invdomain "github.com/farmavida/farmavida-api/internal/domain/inventory"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// ApplyMovementUseCase aplica movimientos de stock (entrada o salida) de forma
// transaccional: bloqueo de fila del item (SELECT FOR UPDATE), asignación FEFO en
// salidas, actualización en lockstep de lote y agregado, y registro de auditoría.
type ApplyMovementUseCase struct {
	txRunner TxRunner
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner}
}

// ApplyMovementInput entrada para aplicar un movimiento.
// El item se resuelve por ItemID o, en su defecto, por Barcode (ItemID gana si
// vienen ambos). LotCode/Expiry son la pista de lote: en entradas definen la clave
// del lote a acreditar (find-or-create); en salidas, si alguno viene, seleccionan
// un lote explícito por igualdad estricta (incluyendo nulos) y desactivan FEFO.
type ApplyMovementInput struct {
	ItemID      string
	Barcode     string
	Kind        string // entry | exit
	Quantity    int64
	Motive      string
	DocumentRef string
	LotCode     *string
	Expiry      *time.Time
	UserID      string
}

// MovementResult movimientos creados más el estado posterior del item y de los
// lotes afectados, en el orden en que fueron debitados/acreditados.
type MovementResult struct {
	Movements []*entity.Movement
	Item      *entity.Item
	Lots      []*entity.Lot
}

// ApplyMovement valida la entrada, abre la transacción y aplica el movimiento.
// Cualquier error tras la validación aborta la transacción completa: ninguna
// mutación parcial de item, lote o movimiento es observable.
func (uc *ApplyMovementUseCase) ApplyMovement(ctx context.Context, input ApplyMovementInput) (*MovementResult, error) {
	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		var err error
		result, err = uc.ApplyWithin(itemRepo, lotRepo, movRepo, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyWithin aplica el movimiento usando repositorios ya ligados a una
// transacción abierta por el caller. Lo usa la creación de items para
// materializar el stock inicial en la misma transacción del insert del item.
func (uc *ApplyMovementUseCase) ApplyWithin(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	input ApplyMovementInput,
) (*MovementResult, error) {
	if input.Kind != entity.MovementKindEntry && input.Kind != entity.MovementKindExit {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.ItemID == "" && input.Barcode == "" {
		return nil, domain.ErrInvalidInput
	}

	item, err := resolveItemForUpdate(itemRepo, input.ItemID, input.Barcode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if input.Kind == entity.MovementKindEntry {
		return uc.doEntry(itemRepo, lotRepo, movRepo, item, input, now)
	}
	return uc.doExit(itemRepo, lotRepo, movRepo, item, input, now)
}

// resolveItemForUpdate localiza el item por ID o código de barras y bloquea su fila.
// El lock del item serializa los movimientos concurrentes sobre el mismo item.
func resolveItemForUpdate(itemRepo repository.ItemRepository, itemID, barcode string) (*entity.Item, error) {
	if itemID == "" {
		byCode, err := itemRepo.GetByBarcode(barcode)
		if err != nil {
			return nil, err
		}
		if byCode == nil {
			return nil, domain.ErrNotFound
		}
		itemID = byCode.ID
	}
	item, err := itemRepo.GetForUpdate(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// doEntry: find-or-create del lote por (item, código, caducidad), acredita lote e
// item por la misma cantidad y registra un único movimiento.
func (uc *ApplyMovementUseCase) doEntry(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	item *entity.Item,
	input ApplyMovementInput,
	now time.Time,
) (*MovementResult, error) {
	lot, err := findOrCreateLot(lotRepo, item.ID, input.LotCode, input.Expiry, now)
	if err != nil {
		return nil, err
	}

	lot.Stock += input.Quantity
	lot.UpdatedAt = now
	if err := lotRepo.UpdateStock(lot.ID, lot.Stock, now); err != nil {
		return nil, err
	}
	item.Stock += input.Quantity
	item.UpdatedAt = now
	if err := itemRepo.UpdateStock(item.ID, item.Stock, now); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		LotID:       lot.ID,
		Kind:        entity.MovementKindEntry,
		Quantity:    input.Quantity,
		Motive:      motiveOrDefault(input.Motive, entity.DefaultEntryMotive),
		DocumentRef: input.DocumentRef,
		CreatedAt:   now,
		CreatedBy:   input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	return &MovementResult{
		Movements: []*entity.Movement{mov},
		Item:      item,
		Lots:      []*entity.Lot{lot},
	}, nil
}

// doExit: pre-chequeo contra el agregado, asignación (explícita o FEFO) y débito de
// cada lote asignado con un movimiento por lote tocado.
func (uc *ApplyMovementUseCase) doExit(
	itemRepo repository.ItemRepository,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	item *entity.Item,
	input ApplyMovementInput,
	now time.Time,
) (*MovementResult, error) {
	// Rechazo temprano: nunca se intenta una asignación parcial.
	if input.Quantity > item.Stock {
		return nil, domain.ErrInsufficientStock
	}

	var allocations []invdomain.Allocation
	if input.LotCode != nil || input.Expiry != nil {
		// Lote explícito: igualdad estricta sobre (código, caducidad), nulos incluidos.
		lot, err := lotRepo.GetByKeyForUpdate(item.ID, input.LotCode, input.Expiry)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, domain.ErrNotFound
		}
		allocations, err = invdomain.PlanExplicit(lot, input.Quantity)
		if err != nil {
			return nil, err
		}
	} else {
		lots, err := lotRepo.ListByItemForUpdate(item.ID)
		if err != nil {
			return nil, err
		}
		allocations, err = invdomain.Plan(lots, input.Quantity)
		if err != nil {
			return nil, err
		}
	}

	motive := motiveOrDefault(input.Motive, entity.DefaultExitMotive)
	movements := make([]*entity.Movement, 0, len(allocations))
	lots := make([]*entity.Lot, 0, len(allocations))
	for _, alloc := range allocations {
		lot := alloc.Lot
		lot.Stock -= alloc.Quantity
		lot.UpdatedAt = now
		if err := lotRepo.UpdateStock(lot.ID, lot.Stock, now); err != nil {
			return nil, err
		}
		item.Stock -= alloc.Quantity
		if err := itemRepo.UpdateStock(item.ID, item.Stock, now); err != nil {
			return nil, err
		}

		mov := &entity.Movement{
			ID:          uuid.New().String(),
			ItemID:      item.ID,
			LotID:       lot.ID,
			Kind:        entity.MovementKindExit,
			Quantity:    alloc.Quantity,
			Motive:      motive,
			DocumentRef: input.DocumentRef,
			CreatedAt:   now,
			CreatedBy:   input.UserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)
		lots = append(lots, lot)
	}
	item.UpdatedAt = now

	return &MovementResult{Movements: movements, Item: item, Lots: lots}, nil
}

// findOrCreateLot busca el lote por su clave natural; si no existe lo crea con stock
// cero. Una creación concurrente de la misma clave pierde contra el índice único y
// se resuelve releyendo la fila ganadora.
func findOrCreateLot(lotRepo repository.LotRepository, itemID string, code *string, expiry *time.Time, now time.Time) (*entity.Lot, error) {
	lot, err := lotRepo.GetByKeyForUpdate(itemID, code, expiry)
	if err != nil {
		return nil, err
	}
	if lot != nil {
		return lot, nil
	}
	lot = &entity.Lot{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Code:      code,
		Expiry:    expiry,
		Stock:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := lotRepo.Create(lot); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			winner, err := lotRepo.GetByKeyForUpdate(itemID, code, expiry)
			if err != nil {
				return nil, err
			}
			if winner == nil {
				// La fila ganadora todavía no es visible en este snapshot.
				return nil, domain.ErrTxConflict
			}
			return winner, nil
		}
		return nil, err
	}
	return lot, nil
}

func motiveOrDefault(motive, def string) string {
	if motive == "" {
		return def
	}
	return motive
}
