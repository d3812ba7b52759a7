package controllers

import (
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/accounts"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// CuentaController exposes the role change and account deletion request
// workflows.
type CuentaController struct {
	svc  accounts.Service
	logg *logger.Logger
}

func NewCuentaController(svc accounts.Service, logg *logger.Logger) *CuentaController {
	return &CuentaController{svc: svc, logg: logg}
}

func (c *CuentaController) actor(r *http.Request) (accounts.Actor, error) {
	info, err := requireActor(r)
	if err != nil {
		return accounts.Actor{}, err
	}
	return accounts.Actor{ID: info.UserID, Role: info.Role}, nil
}

type createRoleChangeRequest struct {
	Motivacion string  `json:"motivacion" validate:"required,max=500"`
	Detalles   *string `json:"detalles" validate:"omitempty,max=1000"`
}

func (c *CuentaController) CreateRoleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body createRoleChangeRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.CreateRoleChange(ctx, actor, accounts.CreateRoleChangeInput{
		Motivacion: body.Motivacion,
		Detalles:   body.Detalles,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *CuentaController) ListRoleChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.ListRoleChanges(ctx, actor, r.URL.Query().Get("estado"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *CuentaController) MyRoleChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.MyRoleChanges(ctx, actor)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

type decisionRequest struct {
	Comentario *string `json:"comentario" validate:"omitempty,max=1000"`
}

func (c *CuentaController) decideRoleChange(w http.ResponseWriter, r *http.Request, approve bool) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body decisionRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.DecideRoleChange(ctx, actor, accounts.DecisionInput{
		RequestID:  id,
		Approve:    approve,
		Comentario: body.Comentario,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *CuentaController) ApproveRoleChange(w http.ResponseWriter, r *http.Request) {
	c.decideRoleChange(w, r, true)
}

func (c *CuentaController) RejectRoleChange(w http.ResponseWriter, r *http.Request) {
	c.decideRoleChange(w, r, false)
}

func (c *CuentaController) CancelRoleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.CancelRoleChange(ctx, actor, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
}

type createDeletionRequest struct {
	Razon    string  `json:"razon" validate:"required,max=100"`
	Detalles *string `json:"detalles" validate:"omitempty,max=500"`
}

func (c *CuentaController) CreateDeletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body createDeletionRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.CreateDeletion(ctx, actor, accounts.CreateDeletionInput{
		Razon:    body.Razon,
		Detalles: body.Detalles,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *CuentaController) ListDeletions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.ListDeletions(ctx, actor, r.URL.Query().Get("estado"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *CuentaController) MyDeletions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.MyDeletions(ctx, actor)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *CuentaController) decideDeletion(w http.ResponseWriter, r *http.Request, approve bool) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body decisionRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.DecideDeletion(ctx, actor, accounts.DecisionInput{
		RequestID:  id,
		Approve:    approve,
		Comentario: body.Comentario,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *CuentaController) ApproveDeletion(w http.ResponseWriter, r *http.Request) {
	c.decideDeletion(w, r, true)
}

func (c *CuentaController) RejectDeletion(w http.ResponseWriter, r *http.Request) {
	c.decideDeletion(w, r, false)
}

func (c *CuentaController) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.CancelDeletion(ctx, actor, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
}
