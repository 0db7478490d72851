package ledger

import (
	"context"

	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de stock:
// o se aplican todas las escrituras del callback o ninguna queda visible.
//
// Si la transacción falla por serialización o deadlock, la implementación
// envuelve domain.ErrConcurrencyConflict para que el caso de uso reintente.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockPositionRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
