package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

const (
	maxMotivacionLen        = 500
	maxRoleChangeDetalleLen = 1000
	maxDeletionDetalleLen   = 500

	referenciaCambioRol   = "solicitud-cambio-rol"
	referenciaEliminacion = "solicitud-eliminacion"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == enums.UserRoleAdministrador
}

// Service drives the role change and account deletion workflows.
type Service interface {
	CreateRoleChange(ctx context.Context, actor Actor, input CreateRoleChangeInput) (*RoleChangeDTO, error)
	DecideRoleChange(ctx context.Context, actor Actor, input DecisionInput) (*RoleChangeDTO, error)
	CancelRoleChange(ctx context.Context, actor Actor, requestID uuid.UUID) error
	ListRoleChanges(ctx context.Context, actor Actor, estado string) ([]RoleChangeDTO, error)
	MyRoleChanges(ctx context.Context, actor Actor) ([]RoleChangeDTO, error)

	CreateDeletion(ctx context.Context, actor Actor, input CreateDeletionInput) (*DeletionDTO, error)
	DecideDeletion(ctx context.Context, actor Actor, input DecisionInput) (*DeletionDTO, error)
	CancelDeletion(ctx context.Context, actor Actor, requestID uuid.UUID) error
	ListDeletions(ctx context.Context, actor Actor, estado string) ([]DeletionDTO, error)
	MyDeletions(ctx context.Context, actor Actor) ([]DeletionDTO, error)
}

// CreateRoleChangeInput carries a new role change petition.
type CreateRoleChangeInput struct {
	Motivacion string
	Detalles   *string
}

// CreateDeletionInput carries a new account deletion petition.
type CreateDeletionInput struct {
	Razon    string
	Detalles *string
}

// DecisionInput resolves a pending request.
type DecisionInput struct {
	RequestID  uuid.UUID
	Approve    bool
	Comentario *string
}

type service struct {
	repo Repository
	tx   txRunner
	sink notifications.Sink
	logg *logger.Logger
}

// NewService wires the account lifecycle dependencies.
func NewService(repo Repository, tx txRunner, sink notifications.Sink, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "accounts repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, sink: sink, logg: logg}, nil
}

func (s *service) CreateRoleChange(ctx context.Context, actor Actor, input CreateRoleChangeInput) (*RoleChangeDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.Role == enums.UserRoleRescatista {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ya eres Rescatista")
	}

	motivacion := strings.TrimSpace(input.Motivacion)
	if motivacion == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "motivacion requerida")
	}
	if len([]rune(motivacion)) > maxMotivacionLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("motivacion supera %d caracteres", maxMotivacionLen))
	}
	if input.Detalles != nil && len([]rune(*input.Detalles)) > maxRoleChangeDetalleLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("detalles supera %d caracteres", maxRoleChangeDetalleLen))
	}

	var request *models.SolicitudCambioRol
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pending, err := repo.PendingRoleChangeExists(ctx, actor.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending role change")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeDuplicate, "ya tienes una solicitud de cambio de rol pendiente")
		}

		request = &models.SolicitudCambioRol{
			UsuarioID:  actor.ID,
			NuevoRol:   enums.UserRoleRescatista,
			Motivacion: motivacion,
			Detalles:   input.Detalles,
			Estado:     enums.AccountRequestStatusPendiente,
		}
		if err := repo.CreateRoleChange(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist role change request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRoleChangeDTO(request), nil
}

func (s *service) DecideRoleChange(ctx context.Context, actor Actor, input DecisionInput) (*RoleChangeDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	var request *models.SolicitudCambioRol
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = repo.GetRoleChange(ctx, input.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role change request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if request.Estado.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("la solicitud ya fue resuelta como %s", request.Estado))
		}

		estado := enums.AccountRequestStatusRechazada
		if input.Approve {
			estado = enums.AccountRequestStatusAprobada
		}
		respuesta := stampRespuesta(actor.ID, input.Comentario)

		if err := repo.UpdateRoleChangeDecision(ctx, request.ID, estado, respuesta); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role change request")
		}
		if input.Approve {
			if err := repo.SetUserRole(ctx, request.UsuarioID, enums.UserRoleRescatista); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user role")
			}
		}
		request.Estado = estado
		request.Respuesta = respuesta
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, request.UsuarioID, request.ID, referenciaCambioRol, input.Approve,
		"Solicitud de cambio de rol aprobada", "Ahora eres Rescatista.",
		"Solicitud de cambio de rol rechazada", "Tu solicitud de cambio de rol fue rechazada.")
	return toRoleChangeDTO(request), nil
}

func (s *service) CancelRoleChange(ctx context.Context, actor Actor, requestID uuid.UUID) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.GetRoleChange(ctx, requestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load role change request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if request.UsuarioID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "solo el solicitante puede cancelar su solicitud")
		}
		if request.Estado.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "la solicitud ya fue resuelta")
		}
		if err := repo.DeleteRoleChange(ctx, requestID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete role change request")
		}
		return nil
	})
}

func (s *service) ListRoleChanges(ctx context.Context, actor Actor, estado string) ([]RoleChangeDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter, err := parseEstadoFilter(estado)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRoleChanges(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list role change requests")
	}
	return toRoleChangeDTOs(rows), nil
}

func (s *service) MyRoleChanges(ctx context.Context, actor Actor) ([]RoleChangeDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListRoleChangesByUser(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list role change requests")
	}
	return toRoleChangeDTOs(rows), nil
}

func (s *service) CreateDeletion(ctx context.Context, actor Actor, input CreateDeletionInput) (*DeletionDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	razon, err := enums.ParseDeletionReason(input.Razon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "razón de eliminación inválida")
	}
	if input.Detalles != nil && len([]rune(*input.Detalles)) > maxDeletionDetalleLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("detalles supera %d caracteres", maxDeletionDetalleLen))
	}

	var request *models.SolicitudEliminacionCuenta
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pending, err := repo.PendingDeletionExists(ctx, actor.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending deletion")
		}
		if pending {
			return pkgerrors.New(pkgerrors.CodeDuplicate, "ya tienes una solicitud de eliminación pendiente")
		}

		request = &models.SolicitudEliminacionCuenta{
			UsuarioID:        actor.ID,
			RazonEliminacion: razon,
			Detalles:         input.Detalles,
			Estado:           enums.AccountRequestStatusPendiente,
		}
		if err := repo.CreateDeletion(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist deletion request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDeletionDTO(request), nil
}

func (s *service) DecideDeletion(ctx context.Context, actor Actor, input DecisionInput) (*DeletionDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	var request *models.SolicitudEliminacionCuenta
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = repo.GetDeletion(ctx, input.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deletion request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if request.Estado.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("la solicitud ya fue resuelta como %s", request.Estado))
		}

		estado := enums.AccountRequestStatusRechazada
		if input.Approve {
			estado = enums.AccountRequestStatusAprobada
		}
		respuesta := stampRespuesta(actor.ID, input.Comentario)

		if err := repo.UpdateDeletionDecision(ctx, request.ID, estado, respuesta); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update deletion request")
		}
		if input.Approve {
			if err := repo.SoftDeleteUser(ctx, request.UsuarioID, time.Now().UTC()); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "soft delete user")
			}
		}
		request.Estado = estado
		request.Respuesta = respuesta
		return nil
	})
	if err != nil {
		return nil, err
	}

	// an approved deletion locks the account out, so only rejections get a
	// notification the user can still read
	if !input.Approve {
		s.notifyDecision(ctx, request.UsuarioID, request.ID, referenciaEliminacion, false,
			"", "",
			"Solicitud de eliminación rechazada", "Tu solicitud de eliminación de cuenta fue rechazada.")
	}
	return toDeletionDTO(request), nil
}

func (s *service) CancelDeletion(ctx context.Context, actor Actor, requestID uuid.UUID) error {
	if requestID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.GetDeletion(ctx, requestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deletion request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if request.UsuarioID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "solo el solicitante puede cancelar su solicitud")
		}
		if request.Estado.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "la solicitud ya fue resuelta")
		}
		if err := repo.DeleteDeletion(ctx, requestID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete deletion request")
		}
		return nil
	})
}

func (s *service) ListDeletions(ctx context.Context, actor Actor, estado string) ([]DeletionDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	filter, err := parseEstadoFilter(estado)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListDeletions(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deletion requests")
	}
	return toDeletionDTOs(rows), nil
}

func (s *service) MyDeletions(ctx context.Context, actor Actor) ([]DeletionDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListDeletionsByUser(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deletion requests")
	}
	return toDeletionDTOs(rows), nil
}

func requireAdmin(actor Actor) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if !actor.isAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "se requiere rol Administrador")
	}
	return nil
}

func parseEstadoFilter(estado string) (*enums.AccountRequestStatus, error) {
	if strings.TrimSpace(estado) == "" {
		return nil, nil
	}
	parsed, err := enums.ParseAccountRequestStatus(estado)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "estado inválido")
	}
	return &parsed, nil
}

func stampRespuesta(adminID uuid.UUID, comentario *string) models.RespuestaAdmin {
	now := time.Now().UTC()
	admin := adminID
	return models.RespuestaAdmin{
		Comentario:     comentario,
		RespondidoPor:  &admin,
		FechaRespuesta: &now,
	}
}

func (s *service) notifyDecision(ctx context.Context, userID, requestID uuid.UUID, refTipo string, approved bool, approveTitle, approveMsg, rejectTitle, rejectMsg string) {
	if s.sink == nil {
		return
	}

	note := notifications.Note{
		UsuarioID:      userID,
		ReferenciaID:   &requestID,
		ReferenciaTipo: &refTipo,
	}
	if approved {
		note.Tipo = enums.NotificationTypeSolicitudAprobada
		note.Titulo = approveTitle
		note.Mensaje = approveMsg
	} else {
		note.Tipo = enums.NotificationTypeSolicitudRechazada
		note.Titulo = rejectTitle
		note.Mensaje = rejectMsg
	}

	if err := s.sink.RecordAndBroadcast(ctx, note); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "usuario_id", userID.String()), "notification delivery failed")
	}
}
