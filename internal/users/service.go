package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the authenticated caller. Every operation in this package
// is admin-gated.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// Service is the admin-facing user management surface.
type Service interface {
	List(ctx context.Context, actor Actor, input ListInput) ([]UserDTO, error)
	ListPending(ctx context.Context, actor Actor) ([]UserDTO, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error)
	ApproveAccount(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error)
	RejectAccount(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*UserDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

// ListInput carries raw listing filters before validation.
type ListInput struct {
	TipoUsuario  string
	EstadoCuenta string
}

// UpdateInput is the admin mutation surface. Nil fields are left untouched.
type UpdateInput struct {
	Nombre             *string
	Telefono           *string
	Ciudad             *string
	Pais               *string
	TipoUsuario        *string
	DireccionResguardo *string
	CapacidadMaxima    *int
	FotoPerfil         *string
}

type service struct {
	repo Repository
	tx   txRunner
	sink notifications.Sink
	logg *logger.Logger
}

// NewService wires the user management dependencies.
func NewService(repo Repository, tx txRunner, sink notifications.Sink, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, sink: sink, logg: logg}, nil
}

func (s *service) List(ctx context.Context, actor Actor, input ListInput) ([]UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	filters := Filters{}
	if v := strings.TrimSpace(input.TipoUsuario); v != "" {
		role, err := enums.ParseUserRole(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tipoUsuario inválido")
		}
		filters.TipoUsuario = &role
	}
	if v := strings.TrimSpace(input.EstadoCuenta); v != "" {
		estado, err := enums.ParseAccountState(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "estadoCuenta inválido")
		}
		filters.EstadoCuenta = &estado
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return toUserDTOs(rows), nil
}

func (s *service) ListPending(ctx context.Context, actor Actor) ([]UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	pendiente := enums.AccountStatePendiente
	rows, err := s.repo.List(ctx, Filters{EstadoCuenta: &pendiente})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending users")
	}
	return toUserDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
	}
	return toUserDTO(user), nil
}

func (s *service) ApproveAccount(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error) {
	return s.decideAccount(ctx, actor, id, enums.AccountStateAprobado)
}

func (s *service) RejectAccount(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error) {
	return s.decideAccount(ctx, actor, id, enums.AccountStateRechazado)
}

func (s *service) decideAccount(ctx context.Context, actor Actor, id uuid.UUID, estado enums.AccountState) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || user.Eliminado() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
	}
	if user.EstadoCuenta != enums.AccountStatePendiente {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "la cuenta ya fue revisada")
	}

	if err := s.repo.SetAccountState(ctx, id, estado); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account state")
	}
	user.EstadoCuenta = estado

	if estado == enums.AccountStateAprobado {
		s.notify(ctx, notifications.Note{
			UsuarioID: user.ID,
			Tipo:      enums.NotificationTypeSolicitudAprobada,
			Titulo:    "Cuenta aprobada",
			Mensaje:   "Tu cuenta fue aprobada. Ya puedes iniciar sesión.",
		})
	}
	return toUserDTO(user), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*UserDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || user.Eliminado() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
	}

	if input.Nombre != nil {
		nombre := strings.TrimSpace(*input.Nombre)
		if nombre == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
		}
		user.Nombre = nombre
	}
	if input.TipoUsuario != nil {
		role, err := enums.ParseUserRole(strings.TrimSpace(*input.TipoUsuario))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tipoUsuario inválido")
		}
		user.TipoUsuario = role
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

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist user update")
	}
	return toUserDTO(user), nil
}

// Delete removes the user and everything that names it. Pets are kept but
// orphaned so the adoption engine can reassign them to an admin on the next
// request.
func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return pkgerrors.New(pkgerrors.CodeConflict, "no puedes eliminar tu propia cuenta")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "usuario no encontrado")
		}

		orphaned, err := repo.OrphanPetsOfRescatista(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "orphan pets")
		}
		removed, err := repo.DeleteRequestsNamingUser(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade adoption requests")
		}
		if err := repo.DeleteAccountRequestsOfUser(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade account requests")
		}
		if err := repo.DeleteNotificationsOfUser(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade notifications")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}

		if s.logg != nil {
			fields := s.logg.WithFields(ctx, map[string]any{
				"usuario_id":       id.String(),
				"pets_orphaned":    orphaned,
				"requests_removed": removed,
			})
			s.logg.Info(fields, "user hard deleted")
		}
		return nil
	})
}

func (s *service) notify(ctx context.Context, note notifications.Note) {
	if s.sink == nil {
		return
	}
	if err := s.sink.RecordAndBroadcast(ctx, note); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "usuario_id", note.UsuarioID.String()), "notification delivery failed")
	}
}

func requireAdmin(actor Actor) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.Role != enums.UserRoleAdministrador {
		return pkgerrors.New(pkgerrors.CodeForbidden, "se requiere rol Administrador")
	}
	return nil
}
