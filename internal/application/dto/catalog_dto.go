package dto

import "github.com/shopspring/decimal"

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdateSupplierRequest body para PUT /api/suppliers/:id.
type UpdateSupplierRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
}

// SupplierResponse proveedor serializado.
type SupplierResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU      string          `json:"sku" validate:"required,min=1,max=64"`
	Name     string          `json:"name" validate:"required,min=2,max=200"`
	Category string          `json:"category" validate:"omitempty,max=80"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name     string           `json:"name" validate:"omitempty,min=2,max=200"`
	Category string           `json:"category" validate:"omitempty,max=80"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	ImageURL string           `json:"image_url" validate:"omitempty,url"`
}

// ProductResponse producto serializado.
type ProductResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"required,min=7,max=30"`
}

// CustomerResponse cliente serializado.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
}

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	TaxID   string `json:"tax_id" validate:"omitempty,max=30"`
	Address string `json:"address" validate:"omitempty,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CompanyResponse empresa serializada.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Status  string `json:"status"`
}
