package controllers

import (
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/users"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// UsuariosController exposes the admin user management surface.
type UsuariosController struct {
	svc  users.Service
	logg *logger.Logger
}

func NewUsuariosController(svc users.Service, logg *logger.Logger) *UsuariosController {
	return &UsuariosController{svc: svc, logg: logg}
}

func (c *UsuariosController) actor(r *http.Request) (users.Actor, error) {
	info, err := requireActor(r)
	if err != nil {
		return users.Actor{}, err
	}
	return users.Actor{ID: info.UserID, Role: info.Role}, nil
}

func (c *UsuariosController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	query := r.URL.Query()
	rows, err := c.svc.List(ctx, actor, users.ListInput{
		TipoUsuario:  query.Get("tipoUsuario"),
		EstadoCuenta: query.Get("estadoCuenta"),
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *UsuariosController) Pending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.ListPending(ctx, actor)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

func (c *UsuariosController) Get(w http.ResponseWriter, r *http.Request) {
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

	dto, err := c.svc.Get(ctx, actor, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *UsuariosController) Approve(w http.ResponseWriter, r *http.Request) {
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

	dto, err := c.svc.ApproveAccount(ctx, actor, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *UsuariosController) Reject(w http.ResponseWriter, r *http.Request) {
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

	dto, err := c.svc.RejectAccount(ctx, actor, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

type adminUpdateUserRequest struct {
	Nombre             *string `json:"nombre" validate:"omitempty,max=120"`
	Telefono           *string `json:"telefono" validate:"omitempty,max=30"`
	Ciudad             *string `json:"ciudad" validate:"omitempty,max=120"`
	Pais               *string `json:"pais" validate:"omitempty,max=120"`
	TipoUsuario        *string `json:"tipoUsuario" validate:"omitempty"`
	DireccionResguardo *string `json:"direccionResguardo" validate:"omitempty,max=300"`
	CapacidadMaxima    *int    `json:"capacidadMaxima" validate:"omitempty,min=0"`
	FotoPerfil         *string `json:"fotoPerfil" validate:"omitempty,max=500"`
}

func (c *UsuariosController) Update(w http.ResponseWriter, r *http.Request) {
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

	var body adminUpdateUserRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Update(ctx, actor, id, users.UpdateInput{
		Nombre:             body.Nombre,
		Telefono:           body.Telefono,
		Ciudad:             body.Ciudad,
		Pais:               body.Pais,
		TipoUsuario:        body.TipoUsuario,
		DireccionResguardo: body.DireccionResguardo,
		CapacidadMaxima:    body.CapacidadMaxima,
		FotoPerfil:         body.FotoPerfil,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *UsuariosController) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := c.svc.Delete(ctx, actor, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
