package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// ReceiptLine una línea de la venta enriquecida con los nombres de
// producto y proveedor para imprimir en el recibo.
type ReceiptLine struct {
	entity.SaleLine
	ProductName  string
	SupplierName string
}

// ReceiptPDFGenerator genera la representación en PDF del recibo de venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		company *entity.Company,
		customer *entity.Customer,
		lines []ReceiptLine,
	) ([]byte, error)
}

// ReceiptUseCase arma el recibo de una venta y delega la generación del PDF.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	generator    ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		generator:    generator,
	}
}

// DownloadReceiptPDF recupera la venta con sus líneas, verifica la empresa
// del token y genera el PDF del recibo.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la venta no existe.
//   - domain.ErrForbidden        si la venta no pertenece a la empresa del token.
func (uc *ReceiptUseCase) DownloadReceiptPDF(
	ctx context.Context,
	companyID, saleID string,
) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("receipt: obtener empresa: %w", err)
	}

	customer, err := uc.customerRepo.GetByID(sale.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("receipt: obtener cliente: %w", err)
	}

	rawLines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener líneas: %w", err)
	}
	sale.Lines = rawLines

	enriched := make([]ReceiptLine, 0, len(rawLines))
	for _, l := range rawLines {
		productName := "Producto " + l.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(l.ProductID); pErr == nil && product != nil {
			productName = product.Name
		}
		supplierName := ""
		if supplier, sErr := uc.supplierRepo.GetByID(l.SupplierID); sErr == nil && supplier != nil {
			supplierName = supplier.Name
		}
		enriched = append(enriched, ReceiptLine{
			SaleLine:     *l,
			ProductName:  productName,
			SupplierName: supplierName,
		})
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, sale, company, customer, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("recibo_%s.pdf", sale.InvoiceNumber)
	return pdfBytes, filename, nil
}
