package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

var _ repository.StockPositionRepository = (*StockPositionRepo)(nil)

// StockPositionRepo implementación de StockPositionRepository sobre PostgreSQL
// (usable con pool o tx).
type StockPositionRepo struct {
	q Querier
}

// NewStockPositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPositionRepository(q Querier) *StockPositionRepo {
	return &StockPositionRepo{q: q}
}

const stockPositionColumns = `company_id, supplier_id, product_id, quantity, last_unit_cost, version, updated_at`

// Get obtiene la posición de stock; (nil, nil) si nunca fue creada.
func (r *StockPositionRepo) Get(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions
		WHERE company_id = $1 AND supplier_id = $2 AND product_id = $3`
	return r.scanOne(query, companyID, supplierID, productID)
}

// GetForUpdate obtiene la posición y bloquea la fila (SELECT FOR UPDATE) hasta
// el fin de la transacción; (nil, nil) si no existe.
func (r *StockPositionRepo) GetForUpdate(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions
		WHERE company_id = $1 AND supplier_id = $2 AND product_id = $3
		FOR UPDATE`
	return r.scanOne(query, companyID, supplierID, productID)
}

func (r *StockPositionRepo) scanOne(query string, args ...any) (*entity.StockPosition, error) {
	var p entity.StockPosition
	var cost decimal.NullDecimal
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.CompanyID, &p.SupplierID, &p.ProductID, &p.Quantity, &cost, &p.Version, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock position: %w", err)
	}
	if cost.Valid {
		p.LastUnitCost = &cost.Decimal
	}
	return &p, nil
}

// Upsert inserta o actualiza la posición. Version se incrementa en cada
// escritura (sello de concurrencia visible para los callers).
func (r *StockPositionRepo) Upsert(pos *entity.StockPosition) error {
	query := `
		INSERT INTO stock_positions (company_id, supplier_id, product_id, quantity, last_unit_cost, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)
		ON CONFLICT (company_id, supplier_id, product_id)
		DO UPDATE SET quantity       = EXCLUDED.quantity,
		              last_unit_cost = COALESCE(EXCLUDED.last_unit_cost, stock_positions.last_unit_cost),
		              version        = stock_positions.version + 1,
		              updated_at     = EXCLUDED.updated_at
		RETURNING version`
	cost := decimal.NullDecimal{}
	if pos.LastUnitCost != nil {
		cost = decimal.NullDecimal{Decimal: *pos.LastUnitCost, Valid: true}
	}
	err := r.q.QueryRow(context.Background(), query,
		pos.CompanyID, pos.SupplierID, pos.ProductID, pos.Quantity, cost, pos.UpdatedAt,
	).Scan(&pos.Version)
	if err != nil {
		return fmt.Errorf("upsert stock position: %w", err)
	}
	return nil
}

// ListByCompany lista posiciones de la empresa con paginación.
func (r *StockPositionRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockPosition, error) {
	query := `
		SELECT ` + stockPositionColumns + `
		FROM stock_positions
		WHERE company_id = $1
		ORDER BY supplier_id, product_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockPosition
	for rows.Next() {
		var p entity.StockPosition
		var cost decimal.NullDecimal
		if err := rows.Scan(&p.CompanyID, &p.SupplierID, &p.ProductID, &p.Quantity, &cost, &p.Version, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock position: %w", err)
		}
		if cost.Valid {
			p.LastUnitCost = &cost.Decimal
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// TotalsByProduct suma las posiciones por producto. El total por producto
// nunca se almacena: siempre se deriva para que no pueda desincronizarse.
func (r *StockPositionRepo) TotalsByProduct(companyID string) ([]*entity.ProductStockTotal, error) {
	query := `
		SELECT sp.product_id, p.name, SUM(sp.quantity)::bigint, COUNT(*)::bigint
		FROM stock_positions sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.company_id = $1
		GROUP BY sp.product_id, p.name
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("totals by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductStockTotal
	for rows.Next() {
		var t entity.ProductStockTotal
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.Total, &t.Suppliers); err != nil {
			return nil, fmt.Errorf("scan product total: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
