package entity

import "time"

// Customer representa un cliente de la empresa. El teléfono se usa como
// identificador alternativo en el punto de venta.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
