package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// Reintentos de generación del número de factura ante colisión de único.
const invoiceNumberAttempts = 3

// SaleLineInput una línea de venta: consume la posición (SupplierID, ProductID).
type SaleLineInput struct {
	SupplierID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal // cero = usar precio del producto
}

// RecordSaleInput entrada para registrar una venta.
// CustomerID o CustomerPhone (búsqueda POS por teléfono) identifican al cliente.
type RecordSaleInput struct {
	CustomerID    string
	CustomerPhone string
	PaymentMethod string
	InvoicePrefix string // vacío = prefijo configurado del libro
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Lines         []SaleLineInput
}

// RecordSale registra una venta de forma atómica: valida TODAS las líneas
// contra sus posiciones bloqueadas antes de descontar cualquiera; si una línea
// falla, ninguna posición se muta y la venta no se persiste. El número de
// factura sale de un consecutivo por empresa y es único dentro de la empresa.
func (uc *UseCase) RecordSale(ctx context.Context, companyID, userID string, in RecordSaleInput) (*entity.Sale, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.Discount.LessThan(decimal.Zero) || in.Tax.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.InvoicePrefix == "" {
		in.InvoicePrefix = uc.invoicePrefix
	}

	customer, err := uc.resolveCustomer(companyID, in)
	if err != nil {
		return nil, err
	}

	// Validar proveedores/productos y completar precios (solo lectura, fuera de la tx)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Lines {
		line := &in.Lines[i]
		if line.SupplierID == "" || line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if err := uc.checkSupplierProduct(companyID, line.SupplierID, line.ProductID); err != nil {
			return nil, err
		}
		if _, ok := productsByID[line.ProductID]; !ok {
			product, err := uc.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, err
			}
			productsByID[line.ProductID] = product
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = productsByID[line.ProductID].Price
		}
	}

	// Cantidad requerida por posición: dos líneas sobre la misma clave se
	// verifican de forma acumulada contra la cantidad disponible.
	type posKey struct{ supplierID, productID string }
	required := make(map[posKey]int64)
	for _, line := range in.Lines {
		required[posKey{line.SupplierID, line.ProductID}] += line.Quantity
	}
	keys := make([]posKey, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	// Orden estable de bloqueo para evitar ciclos entre ventas concurrentes
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].supplierID != keys[j].supplierID {
			return keys[i].supplierID < keys[j].supplierID
		}
		return keys[i].productID < keys[j].productID
	})

	subtotal := decimal.Zero
	for _, line := range in.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}
	total := subtotal.Sub(in.Discount).Add(in.Tax)
	if total.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		CustomerID:    customer.ID,
		Date:          now,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.SaleStatusCompleted,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Tax:           in.Tax,
		Total:         total,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, line := range in.Lines {
		sale.Lines = append(sale.Lines, &entity.SaleLine{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			SupplierID: line.SupplierID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Subtotal:   line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
		})
	}

	err = uc.runTx(ctx, func(stockRepo repository.StockPositionRepository, saleRepo repository.SaleRepository) error {
		// 1) Bloquear y validar TODAS las posiciones antes de descontar cualquiera
		positions := make(map[posKey]*entity.StockPosition, len(keys))
		for _, k := range keys {
			pos, err := stockRepo.GetForUpdate(companyID, k.supplierID, k.productID)
			if err != nil {
				return err
			}
			if pos == nil {
				return fmt.Errorf("%w: sin posición de stock para producto %s del proveedor %s",
					domain.ErrNotFound, k.productID, k.supplierID)
			}
			if pos.Quantity < required[k] {
				return fmt.Errorf("%w: producto %s del proveedor %s (disponible %d, solicitado %d)",
					domain.ErrInsufficientStock, k.productID, k.supplierID, pos.Quantity, required[k])
			}
			positions[k] = pos
		}

		// 2) Descontar; las filas siguen bloqueadas, nadie pudo colarse entre el chequeo y la escritura
		for _, k := range keys {
			pos := positions[k]
			pos.Quantity -= required[k]
			pos.UpdatedAt = now
			if err := stockRepo.Upsert(pos); err != nil {
				return err
			}
		}

		// 3) Número de factura desde el consecutivo; ante colisión se regenera, nunca se sobrescribe
		if err := uc.createWithInvoiceNumber(saleRepo, sale, in.InvoicePrefix); err != nil {
			return err
		}

		// 4) Persistir líneas
		for _, l := range sale.Lines {
			if err := saleRepo.CreateLine(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// createWithInvoiceNumber toma el siguiente consecutivo y persiste la cabecera.
// Si el número ya está emitido (contador reseteado, números migrados a mano)
// pide otro consecutivo. El chequeo de existencia va ANTES del INSERT: un
// INSERT fallido aborta la transacción de Postgres (SQLSTATE 25P02) y ningún
// reintento posterior podría ejecutarse dentro de ella.
func (uc *UseCase) createWithInvoiceNumber(saleRepo repository.SaleRepository, sale *entity.Sale, prefix string) error {
	for attempt := 0; attempt < invoiceNumberAttempts; attempt++ {
		seq, err := saleRepo.NextInvoiceSeq(sale.CompanyID)
		if err != nil {
			return err
		}
		number := fmt.Sprintf("%s-%06d", prefix, seq)
		taken, err := saleRepo.InvoiceNumberExists(sale.CompanyID, number)
		if err != nil {
			return err
		}
		if taken {
			continue
		}
		sale.InvoiceNumber = number
		return saleRepo.Create(sale)
	}
	return fmt.Errorf("generar número de factura: %w", domain.ErrDuplicate)
}

// resolveCustomer busca el cliente por ID o por teléfono y valida la empresa.
func (uc *UseCase) resolveCustomer(companyID string, in RecordSaleInput) (*entity.Customer, error) {
	var customer *entity.Customer
	var err error
	switch {
	case in.CustomerID != "":
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
	case in.CustomerPhone != "":
		customer, err = uc.customerRepo.GetByCompanyAndPhone(companyID, in.CustomerPhone)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}
