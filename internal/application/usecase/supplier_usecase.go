package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un nuevo proveedor.
func (uc *SupplierUseCase) Create(companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor de la empresa; nil si no existe.
func (uc *SupplierUseCase) GetByID(companyID, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, nil
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores de la empresa; search filtra por nombre sin tildes.
// El filtro se aplica antes del corte de página para no perder coincidencias
// más allá de la primera página.
func (uc *SupplierUseCase) List(companyID, search string, limit, offset int) ([]*dto.SupplierResponse, error) {
	var list []*entity.Supplier
	var err error
	if search == "" {
		list, err = uc.repo.ListByCompany(companyID, limit, offset)
	} else {
		list, err = pageFiltered(
			func(l, o int) ([]*entity.Supplier, error) { return uc.repo.ListByCompany(companyID, l, o) },
			func(s *entity.Supplier) bool { return matchesTerm(s.Name, search) },
			limit, offset,
		)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Update actualiza los campos presentes del proveedor.
func (uc *SupplierUseCase) Update(companyID, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		supplier.Name = in.Name
	}
	if in.Phone != "" {
		supplier.Phone = in.Phone
	}
	if in.Email != "" {
		supplier.Email = in.Email
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
	}
}
