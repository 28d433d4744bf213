//go:build tools

package tools

// Dependencias de herramientas de desarrollo (no se compilan en el binario).
// swag genera docs/swagger.json a partir de las anotaciones godoc de los handlers.
import (
	_ "github.com/swaggo/swag"
)
