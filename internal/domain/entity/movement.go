package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindEntry = "entry" // entrada
	MovementKindExit  = "exit"  // salida
)

// Motivos por defecto cuando el caller no indica uno.
const (
	DefaultEntryMotive = "compra"
	DefaultExitMotive  = "venta"
)

// Movement es el registro inmutable de auditoría de un evento que afecta stock.
// Nunca se actualiza ni se borra, salvo el borrado en cascada del item (stock == 0).
// Una salida FEFO produce un Movement por cada lote realmente debitado.
type Movement struct {
	ID          string
	ItemID      string
	LotID       string // lote debitado/acreditado; vacío solo en datos históricos
	Kind        string // entry | exit
	Quantity    int64  // estrictamente positivo en ambos sentidos
	Motive      string
	DocumentRef string
	CreatedAt   time.Time // asignado por el servidor, inmutable
	CreatedBy   string    // UserID
}
