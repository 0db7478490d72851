package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents elimina marcas diacríticas: "Cañón" -> "Canon".
// Los catálogos se cargan en español; la búsqueda debe encontrar "almacén"
// escribiendo "almacen".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTerm deja un término de búsqueda en minúsculas y sin tildes.
func normalizeTerm(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// matchesTerm compara por contención, insensible a mayúsculas y tildes.
func matchesTerm(value, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(normalizeTerm(value), normalizeTerm(term))
}
