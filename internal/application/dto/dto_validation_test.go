package dto_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tagom-pos/internal/application/dto"
)

const (
	validSupplierID = "a3a5c5ae-9d1c-4b3f-9a6d-2f3e4b5c6d7e"
	validProductID  = "b4b6d6bf-ae2d-4c4f-ab7e-3f4e5c6d7e8f"
	validCompanyID  = "c5c7e7c0-bf3e-4d5f-bc8f-4f5e6d7e8f90"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tags de validación de los bodies del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStockRequest_Validacion(t *testing.T) {
	v := validator.New()

	ok := dto.AdjustStockRequest{SupplierID: validSupplierID, ProductID: validProductID, DeltaQty: -5}
	assert.NoError(t, v.Struct(ok), "delta negativo es un ajuste válido")

	sinProveedor := dto.AdjustStockRequest{ProductID: validProductID, DeltaQty: 5}
	assert.Error(t, v.Struct(sinProveedor))

	idNoUUID := dto.AdjustStockRequest{SupplierID: "prov-1", ProductID: validProductID, DeltaQty: 5}
	assert.Error(t, v.Struct(idNoUUID), "los identificadores son UUID")

	deltaCero := dto.AdjustStockRequest{SupplierID: validSupplierID, ProductID: validProductID}
	assert.Error(t, v.Struct(deltaCero), "delta cero no ajusta nada")
}

func TestCreateSaleRequest_Validacion(t *testing.T) {
	v := validator.New()

	linea := dto.SaleLineRequest{SupplierID: validSupplierID, ProductID: validProductID, Quantity: 2}

	ok := dto.CreateSaleRequest{CustomerPhone: "3001234567", Lines: []dto.SaleLineRequest{linea}}
	assert.NoError(t, v.Struct(ok))

	sinLineas := dto.CreateSaleRequest{CustomerPhone: "3001234567"}
	assert.Error(t, v.Struct(sinLineas), "una venta sin líneas no es válida")

	cantidadNegativa := ok
	cantidadNegativa.Lines = []dto.SaleLineRequest{{
		SupplierID: validSupplierID, ProductID: validProductID, Quantity: -1,
	}}
	assert.Error(t, v.Struct(cantidadNegativa), "dive debe validar cada línea")

	pagoDesconocido := ok
	pagoDesconocido.PaymentMethod = "CHEQUE"
	assert.Error(t, v.Struct(pagoDesconocido))

	conDescuento := ok
	conDescuento.Discount = decimal.RequireFromString("2.50")
	assert.NoError(t, v.Struct(conDescuento))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tags de validación de auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterRequest_Validacion(t *testing.T) {
	v := validator.New()

	ok := dto.RegisterRequest{
		CompanyID: validCompanyID,
		Email:     "cajero@tagom.co",
		Password:  "supersecreta",
		Role:      "vendedor",
	}
	require.NoError(t, v.Struct(ok))

	emailMalo := ok
	emailMalo.Email = "no-es-un-email"
	assert.Error(t, v.Struct(emailMalo))

	passwordCorta := ok
	passwordCorta.Password = "corta"
	assert.Error(t, v.Struct(passwordCorta), "mínimo 8 caracteres")

	rolInventado := ok
	rolInventado.Role = "gerente"
	assert.Error(t, v.Struct(rolInventado), "solo admin, bodeguero o vendedor")
}
