package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea para POST /api/sales.
type SaleLineRequest struct {
	SupplierID string          `json:"supplier_id" validate:"required,uuid4"`
	ProductID  string          `json:"product_id" validate:"required,uuid4"`
	Quantity   int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"` // cero = precio del producto
}

// CreateSaleRequest body para POST /api/sales.
// customer_id o customer_phone identifican al cliente (el POS busca por teléfono).
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id" validate:"omitempty,uuid4"`
	CustomerPhone string            `json:"customer_phone" validate:"omitempty,min=7"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=CASH CARD BANK_TRANSFER"`
	InvoicePrefix string            `json:"invoice_prefix" validate:"omitempty,alphanum,max=8"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	Lines         []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReturnSaleRequest body para POST /api/sales/:id/return.
type ReturnSaleRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// SaleLineResponse línea de venta serializada.
type SaleLineResponse struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplier_id"`
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	IsReturned   bool            `json:"is_returned"`
	ReturnReason string          `json:"return_reason,omitempty"`
}

// SaleResponse venta serializada con sus líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	CustomerID    string             `json:"customer_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Date          time.Time          `json:"date"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}
