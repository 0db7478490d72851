package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/application/ledger"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
)

// StockHandler expone el libro de stock: ajustes, posiciones y totales.
type StockHandler struct {
	uc       *ledger.UseCase
	validate *validator.Validate
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc, validate: validator.New()}
}

// Adjust godoc
// @Summary      Ajustar stock de una posición (proveedor, producto)
// @Description  delta_qty con signo: positivo recibe mercancía, negativo corrige hacia abajo. Nunca deja la cantidad negativa.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200   {object}  dto.StockPositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	pos, err := h.uc.AdjustStock(c.Context(), companyID, ledger.AdjustStockInput{
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		DeltaQty:   in.DeltaQty,
		UnitCost:   in.UnitCost,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toStockPositionResponse(pos))
}

// GetPosition godoc
// @Summary      Consultar una posición de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  path  string  true  "ID del proveedor"
// @Param        product_id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockPositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/positions/{supplier_id}/{product_id} [get]
func (h *StockHandler) GetPosition(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	pos, err := h.uc.GetPosition(c.Context(), companyID, c.Params("supplier_id"), c.Params("product_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toStockPositionResponse(pos))
}

// Overview godoc
// @Summary      Posición de stock con su producto y proveedor
// @Description  La vista rápida del mostrador: posición, producto y proveedor en una sola respuesta.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  path  string  true  "ID del proveedor"
// @Param        product_id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockOverviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/overview/{supplier_id}/{product_id} [get]
func (h *StockHandler) Overview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	ov, err := h.uc.GetPositionOverview(c.Context(), companyID, c.Params("supplier_id"), c.Params("product_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.StockOverviewResponse{
		Position: *toStockPositionResponse(ov.Position),
		Supplier: dto.SupplierResponse{
			ID:        ov.Supplier.ID,
			CompanyID: ov.Supplier.CompanyID,
			Name:      ov.Supplier.Name,
			Phone:     ov.Supplier.Phone,
			Email:     ov.Supplier.Email,
		},
		Product: dto.ProductResponse{
			ID:        ov.Product.ID,
			CompanyID: ov.Product.CompanyID,
			SKU:       ov.Product.SKU,
			Name:      ov.Product.Name,
			Category:  ov.Product.Category,
			Price:     ov.Product.Price,
			ImageURL:  ov.Product.ImageURL,
		},
	})
}

// ListPositions godoc
// @Summary      Listar posiciones de stock de la empresa
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.StockPositionResponse
// @Router       /api/stock/positions [get]
func (h *StockHandler) ListPositions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	positions, err := h.uc.ListPositions(c.Context(), companyID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.StockPositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, toStockPositionResponse(p))
	}
	return c.JSON(out)
}

// Totals godoc
// @Summary      Total de stock por producto sobre todos sus proveedores
// @Description  Vista calculada a partir de las posiciones; nunca se almacena.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductStockTotalResponse
// @Router       /api/stock/totals [get]
func (h *StockHandler) Totals(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	totals, err := h.uc.TotalsByProduct(c.Context(), companyID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.ProductStockTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, &dto.ProductStockTotalResponse{
			ProductID:   t.ProductID,
			ProductName: t.ProductName,
			Total:       t.Total,
			Suppliers:   t.Suppliers,
		})
	}
	return c.JSON(out)
}

func toStockPositionResponse(p *entity.StockPosition) *dto.StockPositionResponse {
	return &dto.StockPositionResponse{
		SupplierID:   p.SupplierID,
		ProductID:    p.ProductID,
		Quantity:     p.Quantity,
		LastUnitCost: p.LastUnitCost,
		Version:      p.Version,
		UpdatedAt:    p.UpdatedAt,
	}
}
