// Package inventory contiene la lógica de asignación de salidas (servicio de dominio,
// puro y sin acceso a datos): First-Expired-First-Out sobre los lotes de un item.
package inventory

import (
	"sort"

	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// Allocation indica cuántas unidades debitar de un lote concreto.
type Allocation struct {
	Lot      *entity.Lot
	Quantity int64
}

// SortFEFO ordena los lotes in place según la política FEFO:
// lotes con caducidad antes que los sin caducidad, caducidad ascendente,
// y el ID como desempate determinista.
func SortFEFO(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		switch {
		case a.Expiry == nil && b.Expiry == nil:
			return a.ID < b.ID
		case a.Expiry == nil:
			return false
		case b.Expiry == nil:
			return true
		case a.Expiry.Equal(*b.Expiry):
			return a.ID < b.ID
		default:
			return a.Expiry.Before(*b.Expiry)
		}
	})
}

// Plan decide de qué lotes debitar una salida de `requested` unidades.
// Ordena los lotes con SortFEFO y recorre tomando min(restante, lote.Stock) por lote;
// los lotes con stock cero se saltan sin generar asignación. El caller ya validó
// requested <= stock agregado del item, por lo que quedarse sin lotes con restante > 0
// es una violación del invariante agregado == suma de lotes: ErrStockMismatch.
func Plan(lots []*entity.Lot, requested int64) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}
	SortFEFO(lots)

	remaining := requested
	allocations := make([]Allocation, 0, 2)
	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		if lot.Stock <= 0 {
			continue
		}
		take := remaining
		if lot.Stock < take {
			take = lot.Stock
		}
		allocations = append(allocations, Allocation{Lot: lot, Quantity: take})
		remaining -= take
	}
	if remaining > 0 {
		return nil, domain.ErrStockMismatch
	}
	return allocations, nil
}

// PlanExplicit valida una salida contra un único lote indicado por el caller.
// Sin lógica FEFO: o el lote cubre la cantidad completa o la salida se rechaza.
func PlanExplicit(lot *entity.Lot, requested int64) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if lot.Stock < requested {
		return nil, domain.ErrInsufficientStock
	}
	return []Allocation{{Lot: lot, Quantity: requested}}, nil
}
