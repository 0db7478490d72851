package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/application/ledger"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
)

// SaleHandler expone ventas y devoluciones sobre el libro de stock.
type SaleHandler struct {
	uc        *ledger.UseCase
	receiptUC *ledger.ReceiptUseCase
	validate  *validator.Validate
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *ledger.UseCase, receiptUC *ledger.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receiptUC: receiptUC, validate: validator.New()}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Todas las líneas se validan contra el stock antes de descontar cualquiera; si una falla la venta completa se rechaza.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	lines := make([]ledger.SaleLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, ledger.SaleLineInput{
			SupplierID: l.SupplierID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	sale, err := h.uc.RecordSale(c.Context(), companyID, userID, ledger.RecordSaleInput{
		CustomerID:    in.CustomerID,
		CustomerPhone: in.CustomerPhone,
		PaymentMethod: in.PaymentMethod,
		InvoicePrefix: in.InvoicePrefix,
		Discount:      in.Discount,
		Tax:           in.Tax,
		Lines:         lines,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	sale, err := h.uc.GetSale(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// List godoc
// @Summary      Listar ventas (solo cabeceras, más recientes primero)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := pageParams(c)
	sales, err := h.uc.ListSales(c.Context(), companyID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Devolver la venta completa
// @Description  Restaura el stock de todas las líneas pendientes. Repetir la devolución responde 409 sin tocar el stock.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.ReturnSaleRequest  false  "Motivo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/return [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ReturnSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	sale, err := h.uc.ReturnSale(c.Context(), companyID, c.Params("id"), in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// ReturnLine godoc
// @Summary      Devolver una línea de la venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID de la venta"
// @Param        line_id  path  string  true  "ID de la línea"
// @Param        body     body  dto.ReturnSaleRequest  false  "Motivo"
// @Success      200      {object}  dto.SaleResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/lines/{line_id}/return [post]
func (h *SaleHandler) ReturnLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.ReturnSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	sale, err := h.uc.ReturnLine(c.Context(), companyID, c.Params("id"), c.Params("line_id"), in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSaleResponse(sale))
}

// Receipt godoc
// @Summary      Descargar recibo de la venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	pdfBytes, filename, err := h.receiptUC.DownloadReceiptPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		CustomerID:    s.CustomerID,
		InvoiceNumber: s.InvoiceNumber,
		Date:          s.Date,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ID:           l.ID,
			SupplierID:   l.SupplierID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.Subtotal,
			IsReturned:   l.IsReturned,
			ReturnReason: l.ReturnReason,
		})
	}
	return out
}
