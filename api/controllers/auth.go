package controllers

import (
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/auth"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// AuthController exposes registration, login and the own-profile endpoints.
type AuthController struct {
	svc  auth.Service
	logg *logger.Logger
}

func NewAuthController(svc auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{svc: svc, logg: logg}
}

type registerRequest struct {
	Nombre             string  `json:"nombre" validate:"required,max=120"`
	Correo             string  `json:"correo" validate:"required,email"`
	Contrasena         string  `json:"contrasena" validate:"required,min=8,max=128"`
	TipoUsuario        string  `json:"tipoUsuario" validate:"omitempty"`
	Telefono           *string `json:"telefono" validate:"omitempty,max=30"`
	Ciudad             *string `json:"ciudad" validate:"omitempty,max=120"`
	Pais               *string `json:"pais" validate:"omitempty,max=120"`
	DireccionResguardo *string `json:"direccionResguardo" validate:"omitempty,max=300"`
	CapacidadMaxima    *int    `json:"capacidadMaxima" validate:"omitempty,min=0"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body registerRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Register(ctx, auth.RegisterInput{
		Nombre:             body.Nombre,
		Correo:             body.Correo,
		Contrasena:         body.Contrasena,
		TipoUsuario:        body.TipoUsuario,
		Telefono:           body.Telefono,
		Ciudad:             body.Ciudad,
		Pais:               body.Pais,
		DireccionResguardo: body.DireccionResguardo,
		CapacidadMaxima:    body.CapacidadMaxima,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

type loginRequest struct {
	Correo     string `json:"correo" validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body loginRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	resp, err := c.svc.Login(ctx, auth.LoginInput{Correo: body.Correo, Contrasena: body.Contrasena})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, resp)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Profile(ctx, actor.UserID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

type updateProfileRequest struct {
	Nombre             *string `json:"nombre" validate:"omitempty,max=120"`
	Telefono           *string `json:"telefono" validate:"omitempty,max=30"`
	Ciudad             *string `json:"ciudad" validate:"omitempty,max=120"`
	Pais               *string `json:"pais" validate:"omitempty,max=120"`
	DireccionResguardo *string `json:"direccionResguardo" validate:"omitempty,max=300"`
	CapacidadMaxima    *int    `json:"capacidadMaxima" validate:"omitempty,min=0"`
	FotoPerfil         *string `json:"fotoPerfil" validate:"omitempty,max=500"`
}

func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body updateProfileRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.UpdateProfile(ctx, actor.UserID, auth.UpdateProfileInput{
		Nombre:             body.Nombre,
		Telefono:           body.Telefono,
		Ciudad:             body.Ciudad,
		Pais:               body.Pais,
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
