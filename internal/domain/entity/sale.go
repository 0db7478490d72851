package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash         = "CASH"
	PaymentCard         = "CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
)

// Estados de una venta.
const (
	SaleStatusCompleted         = "COMPLETED"          // venta registrada, stock descontado
	SaleStatusPartiallyReturned = "PARTIALLY_RETURNED" // alguna línea devuelta
	SaleStatusReturned          = "RETURNED"           // todas las líneas devueltas
)

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentBankTransfer
}

// Sale representa la cabecera de una venta (factura POS).
// Totales con decimal fijo: Subtotal = Σ(cantidad*precio), Total = Subtotal - Discount + Tax.
type Sale struct {
	ID            string
	CompanyID     string
	CustomerID    string
	InvoiceNumber string // único a nivel sistema (prefijo + consecutivo)
	Date          time.Time
	PaymentMethod string
	Status        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	CreatedBy     string // UserID que registró la venta
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Lines []*SaleLine
}

// SaleLine una línea de la venta: consume la StockPosition (SupplierID, ProductID).
type SaleLine struct {
	ID           string
	SaleID       string
	SupplierID   string
	ProductID    string
	Quantity     int64
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	IsReturned   bool
	ReturnReason string
}

// AllReturned indica si todas las líneas de la venta fueron devueltas.
func (s *Sale) AllReturned() bool {
	if len(s.Lines) == 0 {
		return false
	}
	for _, l := range s.Lines {
		if !l.IsReturned {
			return false
		}
	}
	return true
}
