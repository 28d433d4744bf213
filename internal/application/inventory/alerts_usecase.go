package inventory

import (
	"context"
	"time"

	"github.com/farmavida/farmavida-api/internal/application/dto"
	"github.com/farmavida/farmavida-api/internal/domain/repository"
)

// AlertsUseCase genera el tablero de alertas de la farmacia: lotes próximos a
// caducar y items con stock bajo.
type AlertsUseCase struct {
	itemRepo repository.ItemRepository
	lotRepo  repository.LotRepository
}

// NewAlertsUseCase construye el caso de uso de alertas.
func NewAlertsUseCase(itemRepo repository.ItemRepository, lotRepo repository.LotRepository) *AlertsUseCase {
	return &AlertsUseCase{itemRepo: itemRepo, lotRepo: lotRepo}
}

const alertListCap = 200

// GetAlerts devuelve los lotes que caducan dentro de `days` días (con stock > 0)
// y los items cuyo agregado está en o por debajo de `stockFloor`.
func (uc *AlertsUseCase) GetAlerts(_ context.Context, days int, stockFloor int64) (*dto.AlertsResponse, error) {
	if days <= 0 {
		days = 30
	}
	if stockFloor < 0 {
		stockFloor = 0
	}
	limitDate := time.Now().AddDate(0, 0, days)

	expiring, err := uc.lotRepo.ListExpiringBefore(limitDate, alertListCap)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.itemRepo.ListLowStock(stockFloor, alertListCap)
	if err != nil {
		return nil, err
	}

	resp := &dto.AlertsResponse{
		ExpiringLots:  make([]dto.ExpiringLotDTO, 0, len(expiring)),
		LowStockItems: make([]dto.LowStockItemDTO, 0, len(lowStock)),
	}
	for _, e := range expiring {
		d := dto.ExpiringLotDTO{
			LotID:    e.Lot.ID,
			ItemID:   e.Lot.ItemID,
			ItemName: e.ItemName,
			Stock:    e.Lot.Stock,
		}
		if e.Lot.Code != nil {
			d.LotCode = *e.Lot.Code
		}
		if e.Lot.Expiry != nil {
			d.Expiry = e.Lot.Expiry.Format("2006-01-02")
		}
		resp.ExpiringLots = append(resp.ExpiringLots, d)
	}
	for _, it := range lowStock {
		resp.LowStockItems = append(resp.LowStockItems, dto.LowStockItemDTO{
			ItemID: it.ID,
			Name:   it.Name,
			Stock:  it.Stock,
		})
	}
	return resp, nil
}
