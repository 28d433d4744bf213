package dto

// ApplyMovementRequest body para POST /movements.
// El item se indica por itemId o barcode (itemId tiene prioridad). lotCode y expiry
// son opcionales: en entradas identifican el lote a acreditar; en salidas fuerzan
// un lote explícito.
type ApplyMovementRequest struct {
	ItemID      string `json:"itemId,omitempty"`
	Barcode     string `json:"barcode,omitempty"`
	Kind        string `json:"kind"` // entry | exit
	Quantity    int64  `json:"quantity"`
	Motive      string `json:"motive,omitempty"`
	DocumentRef string `json:"documentRef,omitempty"`
	LotCode     string `json:"lotCode,omitempty"`
	Expiry      string `json:"expiry,omitempty"` // YYYY-MM-DD
}

// RegisterEntryRequest body para POST /movements/entries (azúcar para entradas
// con lote y caducidad obligatorios).
type RegisterEntryRequest struct {
	ItemID      string `json:"itemId"`
	Quantity    int64  `json:"quantity"`
	LotCode     string `json:"lotCode"`
	Expiry      string `json:"expiry"` // YYYY-MM-DD
	Motive      string `json:"motive,omitempty"`
	DocumentRef string `json:"documentRef,omitempty"`
}

// MovementDTO representación de un movimiento en respuestas.
type MovementDTO struct {
	ID          string `json:"id"`
	ItemID      string `json:"itemId"`
	LotID       string `json:"lotId,omitempty"`
	Kind        string `json:"kind"`
	Quantity    int64  `json:"quantity"`
	Motive      string `json:"motive,omitempty"`
	DocumentRef string `json:"documentRef,omitempty"`
	CreatedAt   string `json:"createdAt"`
	CreatedBy   string `json:"createdBy,omitempty"`
}

// LotDTO estado de un lote tras un movimiento.
type LotDTO struct {
	ID      string `json:"id"`
	ItemID  string `json:"itemId"`
	LotCode string `json:"lotCode,omitempty"`
	Expiry  string `json:"expiry,omitempty"` // YYYY-MM-DD
	Stock   int64  `json:"stock"`
}

// ItemSnapshotDTO estado del item tras un movimiento.
type ItemSnapshotDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// MovementResultResponse respuesta de POST /movements: movimientos creados y
// estado posterior del item y los lotes afectados.
type MovementResultResponse struct {
	Movements []MovementDTO   `json:"movements"`
	Item      ItemSnapshotDTO `json:"item"`
	Lots      []LotDTO        `json:"lots"`
}

// AlertsResponse respuesta de GET /items/alerts.
type AlertsResponse struct {
	ExpiringLots  []ExpiringLotDTO  `json:"expiringLots"`
	LowStockItems []LowStockItemDTO `json:"lowStockItems"`
}

// ExpiringLotDTO lote con stock que caduca dentro de la ventana consultada.
type ExpiringLotDTO struct {
	LotID    string `json:"lotId"`
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName"`
	LotCode  string `json:"lotCode,omitempty"`
	Expiry   string `json:"expiry"`
	Stock    int64  `json:"stock"`
}

// LowStockItemDTO item en o por debajo del umbral de stock consultado.
type LowStockItemDTO struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
	Stock  int64  `json:"stock"`
}
