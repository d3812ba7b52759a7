package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/auth"
	"github.com/katzeapp/katze-backend/pkg/config"
	"github.com/katzeapp/katze-backend/pkg/db"
	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/security"
)

const minPasswordLen = 8

// Service covers registration, login and the own-profile surface.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	AccountActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Nombre             string
	Correo             string
	Contrasena         string
	TipoUsuario        string
	Telefono           *string
	Ciudad             *string
	Pais               *string
	DireccionResguardo *string
	CapacidadMaxima    *int
}

// LoginInput carries a credential pair.
type LoginInput struct {
	Correo     string
	Contrasena string
}

// UpdateProfileInput mutates the caller's own profile. Nil fields are left
// untouched. Role and account state are not reachable from here.
type UpdateProfileInput struct {
	Nombre             *string
	Telefono           *string
	Ciudad             *string
	Pais               *string
	DireccionResguardo *string
	CapacidadMaxima    *int
	FotoPerfil         *string
}

type service struct {
	repo     Repository
	jwtCfg   config.JWTConfig
	passwCfg config.PasswordConfig
	logg     *logger.Logger
}

// NewService wires the authentication dependencies.
func NewService(repo Repository, jwtCfg config.JWTConfig, passwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth repository required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, passwCfg: passwCfg, logg: logg}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
	}
	correo, err := normalizeCorreo(input.Correo)
	if err != nil {
		return nil, err
	}
	if len(input.Contrasena) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "la contraseña debe tener al menos 8 caracteres")
	}

	role := enums.UserRoleAdoptante
	if v := strings.TrimSpace(input.TipoUsuario); v != "" {
		role, err = enums.ParseUserRole(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tipoUsuario inválido")
		}
	}

	exists, err := s.repo.CorreoExists(ctx, correo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check correo")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "el correo ya está registrado")
	}

	hash, err := security.HashPassword(input.Contrasena, s.passwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	// admin accounts are bootstrapped pre-approved; everyone else waits for
	// manual review
	estado := enums.AccountStatePendiente
	if role == enums.UserRoleAdministrador {
		estado = enums.AccountStateAprobado
	}

	user := &models.Usuario{
		Nombre:             nombre,
		Correo:             correo,
		ContrasenaHash:     hash,
		Telefono:           input.Telefono,
		Ciudad:             input.Ciudad,
		Pais:               input.Pais,
		TipoUsuario:        role,
		EstadoCuenta:       estado,
		DireccionResguardo: input.DireccionResguardo,
		CapacidadMaxima:    input.CapacidadMaxima,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// the pre-check above races with concurrent registrations; the unique
		// index on correo is the authority
		if db.IsUniqueViolation(err, "idx_usuarios_correo") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicate, "el correo ya está registrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user")
	}
	return toUserDTO(user), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	correo, err := normalizeCorreo(input.Correo)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByCorreo(ctx, correo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credenciales inválidas")
	}

	ok, err := security.VerifyPassword(input.Contrasena, user.ContrasenaHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credenciales inválidas")
	}

	if user.Eliminado() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cuenta eliminada")
	}
	if user.EstadoCuenta != enums.AccountStateAprobado {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cuenta pendiente de aprobación")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.TipoUsuario,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	}
	return &AuthResponse{Token: token, Usuario: *toUserDTO(user)}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Nombre != nil {
		nombre := strings.TrimSpace(*input.Nombre)
		if nombre == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
		}
		user.Nombre = nombre
	}
	if input.Telefono != nil {
		user.Telefono = input.Telefono
	}
	if input.Ciudad != nil {
		user.Ciudad = input.Ciudad
	}
	if input.Pais != nil {
		user.Pais = input.Pais
	}
	if input.DireccionResguardo != nil {
		user.DireccionResguardo = input.DireccionResguardo
	}
	if input.CapacidadMaxima != nil {
		if *input.CapacidadMaxima < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacidadMaxima no puede ser negativa")
		}
		user.CapacidadMaxima = input.CapacidadMaxima
	}
	if input.FotoPerfil != nil {
		user.FotoPerfil = input.FotoPerfil
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist profile update")
	}
	return toUserDTO(user), nil
}

// AccountActive backs the per-request middleware check. A token stays valid
// until expiry, so deleted accounts must be refused here.
func (s *service) AccountActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user != nil && !user.Eliminado(), nil
}

func (s *service) loadActive(ctx context.Context, userID uuid.UUID) (*models.Usuario, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || user.Eliminado() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
	}
	return user, nil
}

func normalizeCorreo(raw string) (string, error) {
	correo := strings.ToLower(strings.TrimSpace(raw))
	if correo == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "correo requerido")
	}
	if _, err := mail.ParseAddress(correo); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "correo inválido")
	}
	return correo, nil
}
