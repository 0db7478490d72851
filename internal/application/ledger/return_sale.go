package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// Razón por defecto cuando el cliente no indica una.
const defaultReturnReason = "no reason provided"

// ReturnSale devuelve la venta completa: marca como devuelta cada línea que
// aún no lo esté y restaura exactamente la cantidad vendida a su posición de
// origen. Una línea se restaura a lo sumo una vez; si ya no queda ninguna
// línea por devolver, ErrAlreadyReturned y el stock no se toca.
func (uc *UseCase) ReturnSale(ctx context.Context, companyID, saleID, reason string) (*entity.Sale, error) {
	return uc.returnLines(ctx, companyID, saleID, "", reason)
}

// ReturnLine devuelve una sola línea de la venta. Segunda llamada sobre la
// misma línea: ErrAlreadyReturned.
func (uc *UseCase) ReturnLine(ctx context.Context, companyID, saleID, lineID, reason string) (*entity.Sale, error) {
	if lineID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.returnLines(ctx, companyID, saleID, lineID, reason)
}

// returnLines implementa la devolución; lineID vacío = todas las líneas pendientes.
func (uc *UseCase) returnLines(ctx context.Context, companyID, saleID, lineID, reason string) (*entity.Sale, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}
	if reason == "" {
		reason = defaultReturnReason
	}

	var result *entity.Sale
	err := uc.runTx(ctx, func(stockRepo repository.StockPositionRepository, saleRepo repository.SaleRepository) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.CompanyID != companyID {
			return domain.ErrForbidden
		}

		// Bloquea las líneas: el flag is_returned se decide bajo el mismo
		// candado que protege la escritura (guarda contra doble devolución).
		lines, err := saleRepo.GetLinesForUpdate(saleID)
		if err != nil {
			return err
		}
		sale.Lines = lines

		var pending []*entity.SaleLine
		for _, l := range lines {
			if lineID != "" && l.ID != lineID {
				continue
			}
			if !l.IsReturned {
				pending = append(pending, l)
			}
		}
		if lineID != "" && !lineExists(lines, lineID) {
			return domain.ErrNotFound
		}
		if len(pending) == 0 {
			return domain.ErrAlreadyReturned
		}

		// Orden estable de bloqueo de posiciones, igual que en RecordSale
		sort.Slice(pending, func(i, j int) bool {
			if pending[i].SupplierID != pending[j].SupplierID {
				return pending[i].SupplierID < pending[j].SupplierID
			}
			return pending[i].ProductID < pending[j].ProductID
		})

		now := time.Now()
		for _, l := range pending {
			pos, err := stockRepo.GetForUpdate(companyID, l.SupplierID, l.ProductID)
			if err != nil {
				return err
			}
			if pos == nil {
				// La venta consumió esta posición y las posiciones nunca se
				// borran: si falta, el almacén está corrupto.
				return fmt.Errorf("posición de stock ausente para producto %s proveedor %s", l.ProductID, l.SupplierID)
			}
			pos.Quantity += l.Quantity
			pos.UpdatedAt = now
			if err := stockRepo.Upsert(pos); err != nil {
				return err
			}
			l.IsReturned = true
			l.ReturnReason = reason
			if err := saleRepo.MarkLineReturned(l); err != nil {
				return err
			}
		}

		status := entity.SaleStatusPartiallyReturned
		if sale.AllReturned() {
			status = entity.SaleStatusReturned
		}
		if err := saleRepo.UpdateStatus(sale.ID, status); err != nil {
			return err
		}
		sale.Status = status
		sale.UpdatedAt = now
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func lineExists(lines []*entity.SaleLine, lineID string) bool {
	for _, l := range lines {
		if l.ID == lineID {
			return true
		}
	}
	return false
}
