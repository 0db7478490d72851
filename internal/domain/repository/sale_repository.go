package repository

import "github.com/jhoicas/tagom-pos/internal/domain/entity"

// SaleRepository persistencia de ventas (cabecera + líneas).
type SaleRepository interface {
	// Create persiste la cabecera. Retorna domain.ErrDuplicate si el número
	// de factura ya existe en la empresa.
	Create(sale *entity.Sale) error
	// InvoiceNumberExists verifica si la empresa ya emitió ese número. El caso
	// de uso lo consulta ANTES de insertar: un INSERT fallido aborta la
	// transacción de Postgres y ninguna sentencia posterior podría ejecutarse.
	InvoiceNumberExists(companyID, invoiceNumber string) (bool, error)
	CreateLine(line *entity.SaleLine) error
	// GetByID obtiene la cabecera sin líneas; (nil, nil) si no existe.
	GetByID(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	// GetLinesForUpdate bloquea las líneas de la venta (guarda contra doble devolución).
	GetLinesForUpdate(saleID string) ([]*entity.SaleLine, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
	// MarkLineReturned persiste is_returned y return_reason de una línea.
	MarkLineReturned(line *entity.SaleLine) error
	UpdateStatus(saleID, status string) error
	// NextInvoiceSeq devuelve el siguiente consecutivo de factura de la empresa
	// (atómico; pensado para ejecutarse dentro de la transacción de la venta).
	NextInvoiceSeq(companyID string) (int64, error)
}
