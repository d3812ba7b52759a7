package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/adoptions"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// SolicitudesController exposes the adoption request lifecycle.
type SolicitudesController struct {
	svc  adoptions.Service
	logg *logger.Logger
}

func NewSolicitudesController(svc adoptions.Service, logg *logger.Logger) *SolicitudesController {
	return &SolicitudesController{svc: svc, logg: logg}
}

type submitSolicitudRequest struct {
	MascotaID            uuid.UUID `json:"mascotaId" validate:"required"`
	PreguntasAdicionales string    `json:"preguntasAdicionales" validate:"omitempty,max=2000"`
}

func (c *SolicitudesController) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body submitSolicitudRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Submit(ctx, adoptions.SubmitInput{
		Adoptante:            adoptions.Actor{ID: actor.UserID, Role: actor.Role},
		MascotaID:            body.MascotaID,
		PreguntasAdicionales: body.PreguntasAdicionales,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *SolicitudesController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Get(ctx, adoptions.Actor{ID: actor.UserID, Role: actor.Role}, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *SolicitudesController) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.ListMine(ctx, adoptions.Actor{ID: actor.UserID, Role: actor.Role})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *SolicitudesController) Received(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.ListReceived(ctx, adoptions.Actor{ID: actor.UserID, Role: actor.Role})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

type decideSolicitudRequest struct {
	EstadoSolicitud string `json:"estadoSolicitud" validate:"omitempty"`
	Estado          string `json:"estado" validate:"omitempty"`
	Decision        string `json:"decision" validate:"omitempty"`
}

// decision returns the first populated decision field. Clients historically
// send estadoSolicitud or estado; decision stays accepted.
func (b decideSolicitudRequest) decision() string {
	for _, v := range []string{b.EstadoSolicitud, b.Estado, b.Decision} {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *SolicitudesController) Decide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body decideSolicitudRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	decision := body.decision()
	if decision == "" {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "estadoSolicitud requerido"))
		return
	}

	dto, err := c.svc.Decide(ctx, adoptions.DecideInput{
		RequestID: id,
		Decision:  decision,
		Actor:     adoptions.Actor{ID: actor.UserID, Role: actor.Role},
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *SolicitudesController) Review(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Review(ctx, adoptions.Actor{ID: actor.UserID, Role: actor.Role}, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}
