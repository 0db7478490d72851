package repository

import "github.com/jhoicas/tagom-pos/internal/domain/entity"

// StockPositionRepository acceso a las posiciones de stock por (proveedor, producto).
// Get y GetForUpdate retornan (nil, nil) si la posición no existe todavía:
// el caso de uso decide si la crea (ajuste positivo) o falla (decremento).
type StockPositionRepository interface {
	Get(companyID, supplierID, productID string) (*entity.StockPosition, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(companyID, supplierID, productID string) (*entity.StockPosition, error)
	// Upsert inserta o actualiza la posición incrementando Version en cada escritura.
	Upsert(pos *entity.StockPosition) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockPosition, error)
	// TotalsByProduct suma las posiciones por producto (vista calculada, no almacenada).
	TotalsByProduct(companyID string) ([]*entity.ProductStockTotal, error)
}
