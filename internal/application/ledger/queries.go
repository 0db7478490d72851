package ledger

import (
	"context"

	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
)

// GetPosition consulta una posición de stock; ErrNotFound si nunca fue creada.
func (uc *UseCase) GetPosition(_ context.Context, companyID, supplierID, productID string) (*entity.StockPosition, error) {
	if supplierID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	pos, err := uc.stockRepo.Get(companyID, supplierID, productID)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, domain.ErrNotFound
	}
	return pos, nil
}

// ListPositions lista las posiciones de la empresa con paginación.
func (uc *UseCase) ListPositions(_ context.Context, companyID string, limit, offset int) ([]*entity.StockPosition, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.stockRepo.ListByCompany(companyID, limit, offset)
}

// PositionOverview reúne una posición con su producto y su proveedor, la
// vista que el mostrador consulta de un vistazo.
type PositionOverview struct {
	Position *entity.StockPosition
	Supplier *entity.Supplier
	Product  *entity.Product
}

// GetPositionOverview consulta la posición y la devuelve enriquecida con el
// proveedor y el producto; ErrNotFound si la posición no existe.
func (uc *UseCase) GetPositionOverview(ctx context.Context, companyID, supplierID, productID string) (*PositionOverview, error) {
	pos, err := uc.GetPosition(ctx, companyID, supplierID, productID)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || product == nil {
		return nil, domain.ErrNotFound
	}
	return &PositionOverview{Position: pos, Supplier: supplier, Product: product}, nil
}

// TotalsByProduct suma el stock por producto sobre todos sus proveedores.
// Es una vista calculada: el total nunca se almacena, siempre se deriva de
// las posiciones para que no pueda desincronizarse.
func (uc *UseCase) TotalsByProduct(_ context.Context, companyID string) ([]*entity.ProductStockTotal, error) {
	return uc.stockRepo.TotalsByProduct(companyID)
}

// GetSale obtiene una venta con sus líneas.
func (uc *UseCase) GetSale(_ context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}

// ListSales lista las ventas de la empresa (solo cabeceras).
func (uc *UseCase) ListSales(_ context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.saleRepo.ListByCompany(companyID, limit, offset)
}
