package repository

import "github.com/jhoicas/tagom-pos/internal/domain/entity"

// SupplierRepository persistencia de proveedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
}

// ProductRepository persistencia de productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}

// CustomerRepository persistencia de clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByCompanyAndPhone(companyID, phone string) (*entity.Customer, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
}

// CompanyRepository persistencia de empresas (tenants).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
}

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
}
