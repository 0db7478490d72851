package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm_QuitaTildesYMayusculas(t *testing.T) {
	cases := map[string]string{
		"Almacén":        "almacen",
		"CAFÉ Molido":    "cafe molido",
		"  Cañón  ":      "canon", // la virgulilla también es marca diacrítica
		"Panela":         "panela",
		"":               "",
		"ÁÉÍÓÚ áéíóú Üü": "aeiou aeiou uu",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeTerm(in), "entrada %q", in)
	}
}

func TestMatchesTerm_BusquedaInsensibleATildes(t *testing.T) {
	assert.True(t, matchesTerm("Almacén Central", "almacen"),
		"se debe encontrar 'almacén' escribiendo sin tilde")
	assert.True(t, matchesTerm("Café molido 500g", "CAFE"))
	assert.True(t, matchesTerm("Distribuidora Pérez", "pérez"))
	assert.False(t, matchesTerm("Panela 1kg", "azucar"))
}

func TestMatchesTerm_TerminoVacioAceptaTodo(t *testing.T) {
	assert.True(t, matchesTerm("cualquier nombre", ""))
	assert.True(t, matchesTerm("", ""))
}
