package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un medicamento o insumo médico del inventario.
// Stock es el agregado denormalizado: siempre debe cumplir stock == sum(lotes.stock)
// después de cada transacción confirmada.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio unitario de venta
	Stock       int64           // agregado, derivado de los lotes
	Barcode     string          // EAN/UPC/GS1-128, único; vacío = sin código
	CategoryID  string          // vacío = sin categoría
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
