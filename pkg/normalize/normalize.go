// Package normalize pliega texto para búsqueda insensible a tildes.
// "Ibuprofeno 600mg" y "ibuprofeno 600mg" deben encontrar lo mismo que
// "paracetamol" encuentra a "Paracetamól" mal tecleado en el mostrador.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold devuelve s en minúsculas y sin marcas diacríticas.
// Si la transformación falla (entrada no UTF-8 válida) devuelve la entrada en
// minúsculas sin plegar.
func Fold(s string) string {
	out, _, err := transform.String(folder, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
