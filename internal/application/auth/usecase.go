package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/comprascasa/compras-api/internal/application/dto"
	"github.com/comprascasa/compras-api/internal/domain"
	"github.com/comprascasa/compras-api/internal/domain/entity"
	"github.com/comprascasa/compras-api/internal/domain/repository"
	"github.com/comprascasa/compras-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// seedUser par (username, rol) de la lista semilla del hogar.
type seedUser struct {
	username string
	role     string
}

// defaultUsers se crean en el primer arranque con contraseña igual al
// username. Se espera que cada miembro la cambie después del primer login.
var defaultUsers = []seedUser{
	{"papa", entity.RoleJefe},
	{"mama", entity.RoleJefe},
	{"marlene", entity.RoleSolicitante},
	{"rafaela", entity.RoleSolicitante},
	{"abi", entity.RoleSolicitante},
	{"carlo", entity.RoleSolicitante},
	{"cristobal", entity.RoleSolicitante},
}

// AuthUseCase casos de uso de autenticación: login, cambio de contraseña y
// siembra de la lista de usuarios del hogar.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Credenciales malas devuelven ErrUnauthorized sin distinguir si el usuario
// existe.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ChangePassword verifica la contraseña actual del usuario autenticado y
// persiste el hash de la nueva.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	if len(in.NewPassword) < 4 {
		return domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(user.ID, string(hash))
}

// CreateUser crea un usuario con rol válido; el username es único.
func (uc *AuthUseCase) CreateUser(username, password, role string) (*dto.UserResponse, error) {
	if username == "" || password == "" || !entity.ValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// SeedDefaultUsers crea la lista semilla del hogar si la tabla está vacía.
// Idempotente: con usuarios ya presentes no toca nada.
func (uc *AuthUseCase) SeedDefaultUsers() (int, error) {
	count, err := uc.userRepo.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	created := 0
	for _, s := range defaultUsers {
		if _, err := uc.CreateUser(s.username, s.username, s.role); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// ListUsers devuelve todos los usuarios sin hashes.
func (uc *AuthUseCase) ListUsers() ([]dto.UserResponse, error) {
	users, err := uc.userRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
