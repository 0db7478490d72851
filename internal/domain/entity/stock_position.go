package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition representa la cantidad disponible de un producto para un
// proveedor (clave proveedor+producto). Es la única fuente de verdad del
// inventario: el total por producto se calcula sumando posiciones, nunca se
// almacena aparte.
type StockPosition struct {
	CompanyID    string
	SupplierID   string
	ProductID    string
	Quantity     int64 // invariante: nunca negativa
	LastUnitCost *decimal.Decimal // último costo unitario registrado, informativo
	Version      int64 // sello de concurrencia; se incrementa en cada escritura
	UpdatedAt    time.Time
}

// ProductStockTotal total disponible de un producto sumado sobre todos sus
// proveedores (vista calculada, ver StockPositionRepository.TotalsByProduct).
type ProductStockTotal struct {
	ProductID   string
	ProductName string
	Total       int64
	Suppliers   int64 // cantidad de posiciones (proveedores) que aportan al total
}
