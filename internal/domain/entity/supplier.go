package entity

import "time"

// Supplier representa un proveedor de medicamentos o insumos.
type Supplier struct {
	ID        string
	Name      string
	Contact   string
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
