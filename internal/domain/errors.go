package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrItemHasStock       = errors.New("el item aún tiene stock")

	// ErrStockMismatch señala que el agregado del item y la suma de sus lotes
	// divergieron. Nunca debería ocurrir si las transacciones son correctas.
	ErrStockMismatch = errors.New("inconsistencia entre stock del item y sus lotes")

	// ErrTxConflict indica un conflicto de escritura concurrente; la transacción
	// completa puede reintentarse de forma segura.
	ErrTxConflict = errors.New("conflicto de escritura concurrente")
)
