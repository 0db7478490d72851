package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tagom-pos/internal/application/auth"
	"github.com/jhoicas/tagom-pos/internal/application/ledger"
	"github.com/jhoicas/tagom-pos/internal/application/usecase"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	SupplierUC *usecase.SupplierUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	LedgerUC   *ledger.UseCase
	ReceiptUC  *ledger.ReceiptUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (alta pública para bootstrap; lectura protegible a futuro)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Stock ledger (protegido; ajustes solo para admin y bodeguero)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock.Post("/adjustments", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.Adjust)
	stock.Get("/positions", stockHandler.ListPositions)
	stock.Get("/positions/:supplier_id/:product_id", stockHandler.GetPosition)
	stock.Get("/overview/:supplier_id/:product_id", stockHandler.Overview)
	stock.Get("/totals", stockHandler.Totals)

	// Sales (protegido)
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.LedgerUC, deps.ReceiptUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Post("/:id/return", saleHandler.Return)
	sales.Post("/:id/lines/:line_id/return", saleHandler.ReturnLine)
}
