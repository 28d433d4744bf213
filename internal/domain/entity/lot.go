package entity

import "time"

// Lot representa un lote de un item: unidades que comparten código de lote y caducidad.
// La clave de unicidad es (item, código, caducidad) tratando los nulos como valor propio:
// existe a lo sumo un lote "sin código, sin caducidad" por item. Se crea de forma
// perezosa en la primera entrada que referencia esa tripleta.
type Lot struct {
	ID        string
	ItemID    string
	Code      *string    // código impreso en la caja o frasco; nil = sin código
	Expiry    *time.Time // fecha de caducidad; nil = sin caducidad
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
