package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleFarmaceuta = "farmaceuta"
	RoleVendedor   = "vendedor"
)

// User representa un usuario del sistema (colaborador externo al núcleo de
// inventario; el middleware de auth solo necesita ID y rol).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceuta, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
