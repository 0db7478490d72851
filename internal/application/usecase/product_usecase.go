package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// ProductUseCase casos de uso para productos del catálogo.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto; ErrDuplicate si el SKU ya existe en la empresa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		SKU:       in.SKU,
		Name:      in.Name,
		Category:  in.Category,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la empresa; nil si no existe.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// List lista productos; search filtra por nombre o SKU sin tildes. El filtro
// se aplica antes del corte de página.
func (uc *ProductUseCase) List(companyID, search string, limit, offset int) ([]*dto.ProductResponse, error) {
	var list []*entity.Product
	var err error
	if search == "" {
		list, err = uc.repo.ListByCompany(companyID, limit, offset)
	} else {
		list, err = pageFiltered(
			func(l, o int) ([]*entity.Product, error) { return uc.repo.ListByCompany(companyID, l, o) },
			func(p *entity.Product) bool { return matchesTerm(p.Name, search) || matchesTerm(p.SKU, search) },
			limit, offset,
		)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update actualiza los campos presentes del producto.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.ImageURL != "" {
		product.ImageURL = in.ImageURL
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
	}
}
