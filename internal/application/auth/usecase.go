package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tagom-pos/internal/application/dto"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
	"github.com/jhoicas/tagom-pos/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig parámetros de firma de los tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registra usuarios y emite tokens de sesión.
type AuthUseCase struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	jwtCfg    JWTConfig
}

func NewAuthUseCase(users repository.UserRepository, companies repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, companies: companies, jwtCfg: jwtCfg}
}

// RegisterUser da de alta un usuario dentro de una empresa existente. El email
// es único por empresa; el rol por defecto es vendedor (el perfil de mostrador
// más restringido).
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	company, err := uc.companies.GetByID(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if existing, _ := uc.users.GetByEmailAndCompany(in.Email, in.CompanyID); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role := in.Role
	switch role {
	case "":
		role = entity.RoleVendedor
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor:
	default:
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = in.Email
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica las credenciales y emite un JWT con user, empresa y rol.
// Un usuario suspendido no entra aunque la contraseña sea correcta.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	token, err := jwt.Generate(
		uc.jwtCfg.Secret,
		user.ID, user.CompanyID, user.Role,
		uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes,
	)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
