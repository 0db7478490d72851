package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta. Retorna domain.ErrDuplicate si la
// empresa ya emitió ese número de factura (nunca se sobrescribe).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, customer_id, invoice_number, date, payment_method, status,
		                   subtotal, discount, tax, total, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.CompanyID, sale.CustomerID, sale.InvoiceNumber, sale.Date,
		sale.PaymentMethod, sale.Status,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.CreatedBy, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s", domain.ErrDuplicate, sale.InvoiceNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// InvoiceNumberExists verifica si la empresa ya emitió el número. Dentro de la
// transacción de la venta el candado de fila del consecutivo (NextInvoiceSeq)
// serializa a los escritores de la misma empresa, así que entre este chequeo y
// el INSERT nadie más puede tomar el número.
func (r *SaleRepo) InvoiceNumberExists(companyID, invoiceNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sales WHERE company_id = $1 AND invoice_number = $2)`
	var exists bool
	if err := r.q.QueryRow(context.Background(), query, companyID, invoiceNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, supplier_id, product_id, quantity, unit_price, subtotal, is_returned, return_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.SupplierID, line.ProductID,
		line.Quantity, line.UnitPrice, line.Subtotal,
		line.IsReturned, nullIfEmpty(line.ReturnReason),
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

const saleColumns = `id, company_id, customer_id, invoice_number, date, payment_method, status,
	       subtotal, discount, tax, total, created_by, created_at, updated_at`

// GetByID obtiene la cabecera de una venta; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &s.InvoiceNumber, &s.Date,
		&s.PaymentMethod, &s.Status,
		&s.Subtotal, &s.Discount, &s.Tax, &s.Total,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLines obtiene todas las líneas de una venta.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	return r.queryLines(`
		SELECT id, sale_id, supplier_id, product_id, quantity, unit_price, subtotal,
		       is_returned, COALESCE(return_reason, '')
		FROM sale_lines WHERE sale_id = $1 ORDER BY id`, saleID)
}

// GetLinesForUpdate bloquea las líneas de la venta (FOR UPDATE): el flag
// is_returned se lee y escribe bajo el mismo candado.
func (r *SaleRepo) GetLinesForUpdate(saleID string) ([]*entity.SaleLine, error) {
	return r.queryLines(`
		SELECT id, sale_id, supplier_id, product_id, quantity, unit_price, subtotal,
		       is_returned, COALESCE(return_reason, '')
		FROM sale_lines WHERE sale_id = $1 ORDER BY id
		FOR UPDATE`, saleID)
}

func (r *SaleRepo) queryLines(query, saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.SupplierID, &l.ProductID,
			&l.Quantity, &l.UnitPrice, &l.Subtotal, &l.IsReturned, &l.ReturnReason); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByCompany lista ventas de la empresa (solo cabeceras, más recientes primero).
func (r *SaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE company_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.CustomerID, &s.InvoiceNumber, &s.Date,
			&s.PaymentMethod, &s.Status,
			&s.Subtotal, &s.Discount, &s.Tax, &s.Total,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// MarkLineReturned persiste el flag y la razón de devolución de una línea.
func (r *SaleRepo) MarkLineReturned(line *entity.SaleLine) error {
	query := `
		UPDATE sale_lines
		SET is_returned = $2, return_reason = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, line.ID, line.IsReturned, nullIfEmpty(line.ReturnReason))
	if err != nil {
		return fmt.Errorf("mark line returned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza el estado de la venta.
func (r *SaleRepo) UpdateStatus(saleID, status string) error {
	query := `UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, saleID, status)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// NextInvoiceSeq devuelve el siguiente consecutivo de factura de la empresa.
// El upsert sobre invoice_counters es atómico; dentro de la tx de la venta el
// consecutivo queda reservado hasta el Commit.
func (r *SaleRepo) NextInvoiceSeq(companyID string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id)
		DO UPDATE SET last_number = invoice_counters.last_number + 1
		RETURNING last_number`
	var seq int64
	if err := r.q.QueryRow(context.Background(), query, companyID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice seq: %w", err)
	}
	return seq, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
