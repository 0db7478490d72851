package entity

import "time"

// Supplier representa un proveedor de la empresa. Cada posición de stock
// pertenece a un par (proveedor, producto).
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
