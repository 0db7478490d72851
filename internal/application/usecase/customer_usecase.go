package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente; ErrDuplicate si el teléfono ya está registrado en la empresa.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Phone == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndPhone(companyID, in.Phone)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente de la empresa; nil si no existe.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.CompanyID != companyID {
		return nil, nil
	}
	return toCustomerResponse(customer), nil
}

// GetByPhone búsqueda POS por teléfono exacto.
func (uc *CustomerUseCase) GetByPhone(companyID, phone string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByCompanyAndPhone(companyID, phone)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes; search filtra por nombre sin tildes. El filtro se
// aplica antes del corte de página.
func (uc *CustomerUseCase) List(companyID, search string, limit, offset int) ([]*dto.CustomerResponse, error) {
	var list []*entity.Customer
	var err error
	if search == "" {
		list, err = uc.repo.ListByCompany(companyID, limit, offset)
	} else {
		list, err = pageFiltered(
			func(l, o int) ([]*entity.Customer, error) { return uc.repo.ListByCompany(companyID, l, o) },
			func(c *entity.Customer) bool { return matchesTerm(c.Name, search) },
			limit, offset,
		)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}
