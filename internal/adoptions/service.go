package adoptions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// DefaultPreguntas fills preguntasAdicionales when the adopter leaves it blank.
const DefaultPreguntas = "No se proveyó información adicional."

const referenciaSolicitudAdopcion = "solicitud-adopcion"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transitionCounter interface {
	IncTransition(transition string)
}

// Actor identifies the authenticated caller for authorization checks.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == enums.UserRoleAdministrador
}

// Service drives the adoption request lifecycle.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*RequestDTO, error)
	Decide(ctx context.Context, input DecideInput) (*RequestDTO, error)
	Review(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestDTO, error)
	Get(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestDTO, error)
	ListMine(ctx context.Context, actor Actor) ([]RequestDTO, error)
	ListReceived(ctx context.Context, actor Actor) ([]RequestDTO, error)
}

// SubmitInput captures a new adoption request.
type SubmitInput struct {
	Adoptante            Actor
	MascotaID            uuid.UUID
	PreguntasAdicionales string
}

// DecideInput carries a decision over an existing request. Decision arrives as
// free text from the client and is normalized before any state logic runs.
type DecideInput struct {
	RequestID uuid.UUID
	Decision  string
	Actor     Actor
}

type service struct {
	repo    Repository
	tx      txRunner
	sink    notifications.Sink
	metrics transitionCounter
	logg    *logger.Logger
}

// NewService wires the adoption lifecycle dependencies. The sink and metrics
// may be nil in tests.
func NewService(repo Repository, tx txRunner, sink notifications.Sink, metrics transitionCounter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "adoptions repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, sink: sink, metrics: metrics, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*RequestDTO, error) {
	if input.Adoptante.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adoptante id required")
	}
	if input.MascotaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mascota id required")
	}

	preguntas := strings.TrimSpace(input.PreguntasAdicionales)
	if preguntas == "" {
		preguntas = DefaultPreguntas
	}

	var (
		request *models.SolicitudAdopcion
		pet     *models.Mascota
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ExistsNonTerminal(ctx, input.Adoptante.ID, input.MascotaID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check duplicate request")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicate, "ya existe una solicitud activa para esta mascota")
		}

		claimed, err := repo.ClaimPetPending(ctx, input.MascotaID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim pet")
		}
		if !claimed {
			existing, err := repo.GetPet(ctx, input.MascotaID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
			}
			if existing == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "mascota no encontrada")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "la mascota no está disponible para adopción")
		}

		pet, err = repo.GetPet(ctx, input.MascotaID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
		}
		if pet == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mascota no encontrada")
		}
		if pet.RescatistaID != nil && *pet.RescatistaID == input.Adoptante.ID {
			return pkgerrors.New(pkgerrors.CodeConflict, "no puedes solicitar tu propia mascota")
		}

		ownerID, err := s.resolveOwner(ctx, repo, pet)
		if err != nil {
			return err
		}

		request = &models.SolicitudAdopcion{
			AdoptanteID:          input.Adoptante.ID,
			MascotaID:            input.MascotaID,
			RescatistaID:         ownerID,
			PreguntasAdicionales: preguntas,
			EstadoSolicitud:      enums.RequestStatusEnviada,
		}
		if err := repo.Create(ctx, request); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incTransition(enums.RequestStatusEnviada)
	s.notify(ctx, notifications.Note{
		UsuarioID:      request.RescatistaID,
		Tipo:           enums.NotificationTypeSolicitud,
		Titulo:         "Nueva solicitud de adopción",
		Mensaje:        fmt.Sprintf("Recibiste una nueva solicitud de adopción para %s.", pet.Nombre),
		ReferenciaID:   &request.ID,
		ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
	})

	return toRequestDTO(request), nil
}

// resolveOwner returns the request's receiving side. Orphaned pets fall back
// to the first Administrador and the pet record is repaired in the same
// transaction.
func (s *service) resolveOwner(ctx context.Context, repo Repository, pet *models.Mascota) (uuid.UUID, error) {
	if pet.RescatistaID != nil && *pet.RescatistaID != uuid.Nil {
		return *pet.RescatistaID, nil
	}

	admin, err := repo.FirstAdministrador(ctx)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve fallback owner")
	}
	if admin == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "no hay administrador disponible para recibir la solicitud")
	}
	if err := repo.SetPetOwner(ctx, pet.ID, admin.ID); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "repair pet owner")
	}
	pet.RescatistaID = &admin.ID
	return admin.ID, nil
}

func (s *service) Decide(ctx context.Context, input DecideInput) (*RequestDTO, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	decision, err := enums.ParseRequestDecision(input.Decision)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision")
	}

	var (
		request *models.SolicitudAdopcion
		pet     *models.Mascota
		swept   []models.SolicitudAdopcion
	)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err = repo.GetByID(ctx, input.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if request.EstadoSolicitud.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("la solicitud ya fue resuelta como %s", request.EstadoSolicitud))
		}

		if err := authorizeDecision(input.Actor, request, decision); err != nil {
			return err
		}

		switch decision {
		case enums.RequestStatusAprobada:
			swept, err = repo.ListNonTerminalForPet(ctx, request.MascotaID, request.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list competing requests")
			}
			if err := repo.UpdateStatus(ctx, request.ID, enums.RequestStatusAprobada); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve request")
			}
			if err := repo.SetPetState(ctx, request.MascotaID, enums.AdoptionStateAdoptado); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark pet adopted")
			}
			if _, err := repo.SweepNonTerminalForPet(ctx, request.MascotaID, request.ID, enums.RequestStatusRechazada); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sweep competing requests")
			}

		case enums.RequestStatusRechazada, enums.RequestStatusCancelada:
			if err := repo.UpdateStatus(ctx, request.ID, decision); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request")
			}
			remaining, err := repo.CountNonTerminalForPet(ctx, request.MascotaID, request.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count remaining requests")
			}
			if remaining == 0 {
				pet, err = repo.GetPet(ctx, request.MascotaID)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
				}
				if pet != nil && pet.EstadoAdopcion == enums.AdoptionStatePendiente {
					if err := repo.SetPetState(ctx, request.MascotaID, enums.AdoptionStateDisponible); err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recover pet availability")
					}
				}
			}
		}

		request.EstadoSolicitud = decision
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incTransition(decision)
	s.notifyDecision(ctx, input.Actor, request, decision, swept)
	return toRequestDTO(request), nil
}

func authorizeDecision(actor Actor, request *models.SolicitudAdopcion, decision enums.RequestStatus) error {
	if actor.isAdmin() {
		return nil
	}
	switch decision {
	case enums.RequestStatusCancelada:
		// either side may cancel: the adoptante withdraws, the owning
		// rescatista closes the request without rejecting the person
		if actor.ID == request.AdoptanteID || actor.ID == request.RescatistaID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "solo el adoptante o el rescatista responsable pueden cancelar la solicitud")
	default:
		if actor.ID == request.RescatistaID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "solo el rescatista responsable puede resolver la solicitud")
	}
}

func (s *service) Review(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestDTO, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	var request *models.SolicitudAdopcion

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		request, err = repo.GetByID(ctx, requestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
		}
		if !actor.isAdmin() && actor.ID != request.RescatistaID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "solo el rescatista responsable puede revisar la solicitud")
		}
		if request.EstadoSolicitud != enums.RequestStatusEnviada {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("no se puede revisar una solicitud en estado %s", request.EstadoSolicitud))
		}
		if err := repo.UpdateStatus(ctx, request.ID, enums.RequestStatusRevisando); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark request reviewing")
		}
		request.EstadoSolicitud = enums.RequestStatusRevisando
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incTransition(enums.RequestStatusRevisando)
	s.notify(ctx, notifications.Note{
		UsuarioID:      request.AdoptanteID,
		Tipo:           enums.NotificationTypeSolicitudPendiente,
		Titulo:         "Solicitud en revisión",
		Mensaje:        "Tu solicitud de adopción está siendo revisada.",
		ReferenciaID:   &request.ID,
		ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
	})
	return toRequestDTO(request), nil
}

func (s *service) Get(ctx context.Context, actor Actor, requestID uuid.UUID) (*RequestDTO, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}

	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if request == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "solicitud no encontrada")
	}
	if !actor.isAdmin() && actor.ID != request.AdoptanteID && actor.ID != request.RescatistaID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no tienes acceso a esta solicitud")
	}
	return toRequestDTO(request), nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) ([]RequestDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListByAdoptante(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return toRequestDTOs(rows), nil
}

func (s *service) ListReceived(ctx context.Context, actor Actor) ([]RequestDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var (
		rows []models.SolicitudAdopcion
		err  error
	)
	if actor.isAdmin() {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByRescatista(ctx, actor.ID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received requests")
	}
	return toRequestDTOs(rows), nil
}

func (s *service) notifyDecision(ctx context.Context, actor Actor, request *models.SolicitudAdopcion, decision enums.RequestStatus, swept []models.SolicitudAdopcion) {
	switch decision {
	case enums.RequestStatusAprobada:
		s.notify(ctx, notifications.Note{
			UsuarioID:      request.AdoptanteID,
			Tipo:           enums.NotificationTypeSolicitudAprobada,
			Titulo:         "Solicitud aprobada",
			Mensaje:        "¡Felicidades! Tu solicitud de adopción fue aprobada.",
			ReferenciaID:   &request.ID,
			ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
		})
		for i := range swept {
			other := swept[i]
			s.notify(ctx, notifications.Note{
				UsuarioID:      other.AdoptanteID,
				Tipo:           enums.NotificationTypeSolicitudRechazada,
				Titulo:         "Solicitud rechazada",
				Mensaje:        "La mascota fue adoptada por otra persona.",
				ReferenciaID:   &other.ID,
				ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
			})
		}
	case enums.RequestStatusRechazada:
		s.notify(ctx, notifications.Note{
			UsuarioID:      request.AdoptanteID,
			Tipo:           enums.NotificationTypeSolicitudRechazada,
			Titulo:         "Solicitud rechazada",
			Mensaje:        "Tu solicitud de adopción fue rechazada.",
			ReferenciaID:   &request.ID,
			ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
		})
	case enums.RequestStatusCancelada:
		// notify the side that did not cancel
		if actor.ID == request.AdoptanteID {
			s.notify(ctx, notifications.Note{
				UsuarioID:      request.RescatistaID,
				Tipo:           enums.NotificationTypeSolicitud,
				Titulo:         "Solicitud cancelada",
				Mensaje:        "El adoptante canceló su solicitud de adopción.",
				ReferenciaID:   &request.ID,
				ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
			})
			return
		}
		s.notify(ctx, notifications.Note{
			UsuarioID:      request.AdoptanteID,
			Tipo:           enums.NotificationTypeSolicitud,
			Titulo:         "Solicitud cancelada",
			Mensaje:        "Tu solicitud de adopción fue cancelada por el rescatista.",
			ReferenciaID:   &request.ID,
			ReferenciaTipo: ptr(referenciaSolicitudAdopcion),
		})
	}
}

// notify is fire and forget. Notification failures never fail the lifecycle
// transition that already committed.
func (s *service) notify(ctx context.Context, note notifications.Note) {
	if s.sink == nil {
		return
	}
	if err := s.sink.RecordAndBroadcast(ctx, note); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "usuario_id", note.UsuarioID.String()), "notification delivery failed")
	}
}

func (s *service) incTransition(status enums.RequestStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncTransition(strings.ToLower(string(status)))
}

func ptr[T any](v T) *T {
	return &v
}
