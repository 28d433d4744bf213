package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmavida/farmavida-api/internal/application/dto"
	"github.com/farmavida/farmavida-api/internal/application/inventory"
	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para items (medicamentos e insumos).
// El stock se maneja vía movimientos; los ajustes manuales se canalizan por el
// coordinador de movimientos para no romper el invariante agregado == suma de lotes.
type ItemUseCase struct {
	repo          repository.ItemRepository
	txRunner      inventory.TxRunner
	applyMovement *inventory.ApplyMovementUseCase
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	repo repository.ItemRepository,
	txRunner inventory.TxRunner,
	applyMovement *inventory.ApplyMovementUseCase,
) *ItemUseCase {
	return &ItemUseCase{repo: repo, txRunner: txRunner, applyMovement: applyMovement}
}

// Create crea un item. Si viene stock inicial > 0 se materializa como un lote
// "sin código, sin caducidad" más un movimiento de entrada, todo en una
// transacción, para que el agregado nazca cuadrado con sus lotes.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	initialStock := int64(0)
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrInvalidInput
		}
		initialStock = *in.Stock
	}

	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       0,
		Barcode:     strings.TrimSpace(in.Barcode),
		CategoryID:  in.CategoryID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created := item
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if initialStock == 0 {
			return nil
		}
		result, err := uc.applyMovement.ApplyWithin(itemRepo, lotRepo, movRepo, inventory.ApplyMovementInput{
			ItemID:   item.ID,
			Kind:     entity.MovementKindEntry,
			Quantity: initialStock,
			Motive:   "stock inicial",
			UserID:   userID,
		})
		if err != nil {
			return err
		}
		created = result.Item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(created), nil
}

// GetByID obtiene un item por ID. Devuelve nil si no existe.
func (uc *ItemUseCase) GetByID(_ context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// GetByBarcode obtiene un item por código de barras (lector de mostrador).
func (uc *ItemUseCase) GetByBarcode(_ context.Context, barcode string) (*dto.ItemResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.repo.GetByBarcode(barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// List busca items con paginación y filtros de stock.
func (uc *ItemUseCase) List(_ context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	items, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ItemListResponse{
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: int(total)},
		Items: make([]dto.ItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, *toItemResponse(it))
	}
	return resp, nil
}

// Update actualiza campos editables. Stock no es editable aquí (va por movimientos).
func (uc *ItemUseCase) Update(_ context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if in.Price.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.Barcode != nil {
		item.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.CategoryID != nil {
		item.CategoryID = *in.CategoryID
	}
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// AdjustStock aplica una corrección manual de stock como movimiento de entrada
// (delta > 0) o salida FEFO (delta < 0), con motivo "ajuste". Permite llegar a 0;
// un delta que dejaría el stock negativo se rechaza con ErrInsufficientStock.
func (uc *ItemUseCase) AdjustStock(ctx context.Context, id, userID string, delta int64) (*dto.ItemResponse, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	kind := entity.MovementKindEntry
	qty := delta
	if delta < 0 {
		kind = entity.MovementKindExit
		qty = -delta
	}
	result, err := uc.applyMovement.ApplyMovement(ctx, inventory.ApplyMovementInput{
		ItemID:   id,
		Kind:     kind,
		Quantity: qty,
		Motive:   "ajuste",
		UserID:   userID,
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(result.Item), nil
}

// Reactivate vuelve a activar un item desactivado para que aparezca en el
// mostrador. Devuelve nil si no existe.
func (uc *ItemUseCase) Reactivate(_ context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if !item.Active {
		item.Active = true
		item.UpdatedAt = time.Now()
		if err := uc.repo.Update(item); err != nil {
			return nil, err
		}
	}
	return toItemResponse(item), nil
}

// Delete elimina un item solo si su stock es 0, borrando antes movimientos y
// lotes (en ese orden, por las FKs) dentro de la misma transacción.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.Stock > 0 {
			return domain.ErrItemHasStock
		}
		if err := movRepo.DeleteByItem(id); err != nil {
			return err
		}
		if err := lotRepo.DeleteByItem(id); err != nil {
			return err
		}
		return itemRepo.Delete(id)
	})
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Stock:       item.Stock,
		Barcode:     item.Barcode,
		CategoryID:  item.CategoryID,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}
