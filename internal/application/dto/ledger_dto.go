package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
// DeltaQty con signo: positivo recibe mercancía, negativo corrige hacia abajo.
type AdjustStockRequest struct {
	SupplierID string           `json:"supplier_id" validate:"required,uuid4"`
	ProductID  string           `json:"product_id" validate:"required,uuid4"`
	DeltaQty   int64            `json:"delta_qty" validate:"required"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
}

// StockPositionResponse posición de stock serializada.
type StockPositionResponse struct {
	SupplierID   string           `json:"supplier_id"`
	ProductID    string           `json:"product_id"`
	Quantity     int64            `json:"quantity"`
	LastUnitCost *decimal.Decimal `json:"last_unit_cost,omitempty"`
	Version      int64            `json:"version"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// StockOverviewResponse posición + producto + proveedor en una sola respuesta
// (la vista rápida del mostrador).
type StockOverviewResponse struct {
	Position StockPositionResponse `json:"position"`
	Supplier SupplierResponse      `json:"supplier"`
	Product  ProductResponse       `json:"product"`
}

// ProductStockTotalResponse total calculado de un producto sobre todos sus proveedores.
type ProductStockTotalResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Total       int64  `json:"total"`
	Suppliers   int64  `json:"suppliers"`
}
