package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// Intentos ante conflictos de serialización/deadlock antes de rendirse.
const defaultTxAttempts = 3

// Prefijo del número de recibo cuando la petición no trae uno.
const defaultInvoicePrefix = "POS"

// UseCase es el libro de stock: único punto sancionado para mutar la cantidad
// disponible por (proveedor, producto). Todas las mutaciones corren dentro de
// una transacción con bloqueo de fila (SELECT FOR UPDATE) y respetan el
// invariante cantidad >= 0 ante cualquier intercalado de llamadas concurrentes.
type UseCase struct {
	txRunner     TxRunner
	stockRepo    repository.StockPositionRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo      repository.SaleRepository
	txAttempts    int
	invoicePrefix string
}

// NewUseCase construye el libro de stock. txAttempts <= 0 e invoicePrefix
// vacío usan los valores por defecto.
func NewUseCase(
	txRunner TxRunner,
	stockRepo repository.StockPositionRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	txAttempts int,
	invoicePrefix string,
) *UseCase {
	if txAttempts <= 0 {
		txAttempts = defaultTxAttempts
	}
	if invoicePrefix == "" {
		invoicePrefix = defaultInvoicePrefix
	}
	return &UseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		supplierRepo:  supplierRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		saleRepo:      saleRepo,
		txAttempts:    txAttempts,
		invoicePrefix: invoicePrefix,
	}
}

// AdjustStockInput entrada para un ajuste directo (recepción de mercancía o corrección).
type AdjustStockInput struct {
	SupplierID string
	ProductID  string
	DeltaQty   int64            // con signo, distinto de cero
	UnitCost   *decimal.Decimal // opcional, >= 0; se guarda como último costo
}

// AdjustStock aplica un delta con signo sobre la posición (proveedor, producto).
// Si la posición no existe y el delta es positivo, la crea en cero y aplica el
// delta; si no existe y el delta es negativo, ErrNotFound. Si el resultado
// quedaría negativo, ErrInsufficientStock y el estado no cambia.
func (uc *UseCase) AdjustStock(ctx context.Context, companyID string, in AdjustStockInput) (*entity.StockPosition, error) {
	if in.SupplierID == "" || in.ProductID == "" || in.DeltaQty == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar que proveedor y producto existan y sean de la empresa (solo lectura, fuera de la tx)
	if err := uc.checkSupplierProduct(companyID, in.SupplierID, in.ProductID); err != nil {
		return nil, err
	}

	var result *entity.StockPosition
	err := uc.runTx(ctx, func(stockRepo repository.StockPositionRepository, _ repository.SaleRepository) error {
		// Bloquea la fila para serializar ajustes concurrentes sobre la misma clave
		pos, err := stockRepo.GetForUpdate(companyID, in.SupplierID, in.ProductID)
		if err != nil {
			return err
		}
		if pos == nil {
			if in.DeltaQty < 0 {
				// No se puede decrementar stock que nunca existió
				return domain.ErrNotFound
			}
			pos = &entity.StockPosition{
				CompanyID:  companyID,
				SupplierID: in.SupplierID,
				ProductID:  in.ProductID,
				Quantity:   0,
			}
		}
		newQty := pos.Quantity + in.DeltaQty
		if newQty < 0 {
			return domain.ErrInsufficientStock
		}
		pos.Quantity = newQty
		if in.UnitCost != nil {
			cost := *in.UnitCost
			pos.LastUnitCost = &cost
		}
		pos.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(pos); err != nil {
			return err
		}
		result = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkSupplierProduct valida existencia y pertenencia a la empresa.
func (uc *UseCase) checkSupplierProduct(companyID, supplierID, productID string) error {
	supplier, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return domain.ErrForbidden
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return nil
}

// runTx ejecuta el callback transaccional reintentando ante conflictos de
// serialización (domain.ErrConcurrencyConflict envuelto por el TxRunner).
// Los errores de negocio (stock insuficiente, no encontrado) no se reintentan.
func (uc *UseCase) runTx(ctx context.Context, fn func(
	stockRepo repository.StockPositionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	var err error
	for attempt := 0; attempt < uc.txAttempts; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
