package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. El stock NO vive aquí:
// se mantiene por (proveedor, producto) en StockPosition.
type Product struct {
	ID        string
	CompanyID string
	SKU       string // código único por empresa
	Name      string
	Category  string
	Price     decimal.Decimal // precio de venta sugerido
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
