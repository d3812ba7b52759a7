package controllers

import (
	"net/http"
	"strconv"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/pets"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/pagination"
)

// MascotasController exposes the pet catalog.
type MascotasController struct {
	svc  pets.Service
	logg *logger.Logger
}

func NewMascotasController(svc pets.Service, logg *logger.Logger) *MascotasController {
	return &MascotasController{svc: svc, logg: logg}
}

func (c *MascotasController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	input := pets.ListInput{
		TipoAnimal: query.Get("tipoAnimal"),
		Genero:     query.Get("genero"),
		Ubicacion:  query.Get("ubicacion"),
		Pagination: pagination.Params{Cursor: query.Get("cursor")},
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
			return
		}
		input.Pagination.Limit = limit
	}
	if raw := query.Get("disponible"); raw != "" {
		disponible, err := strconv.ParseBool(raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid disponible"))
			return
		}
		input.Disponible = &disponible
	}

	page, err := c.svc.List(ctx, input)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, page)
}

func (c *MascotasController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Get(ctx, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *MascotasController) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.MyPets(ctx, pets.Actor{ID: actor.UserID, Role: actor.Role})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, rows)
}

type createMascotaRequest struct {
	Nombre           string   `json:"nombre" validate:"required,max=120"`
	TipoAnimal       string   `json:"tipoAnimal" validate:"required"`
	Raza             string   `json:"raza" validate:"omitempty,max=120"`
	Edad             int      `json:"edad" validate:"min=0"`
	UnidadEdad       string   `json:"unidadEdad" validate:"required"`
	Tamano           string   `json:"tamano" validate:"required"`
	Genero           string   `json:"genero" validate:"required"`
	Historia         *string  `json:"historia" validate:"omitempty,max=5000"`
	URLsImagenes     []string `json:"urlsImagenes" validate:"omitempty,dive,max=500"`
	TagsSalud        []string `json:"tagsSalud" validate:"omitempty,dive,max=80"`
	TagsCaracter     []string `json:"tagsCaracter" validate:"omitempty,dive,max=80"`
	EstaEsterilizado bool     `json:"estaEsterilizado"`
	VacunasAlDia     bool     `json:"vacunasAlDia"`
	Ubicacion        *string  `json:"ubicacion" validate:"omitempty,max=200"`
}

func (c *MascotasController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body createMascotaRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Create(ctx, pets.Actor{ID: actor.UserID, Role: actor.Role}, pets.CreateInput{
		Nombre:           body.Nombre,
		TipoAnimal:       body.TipoAnimal,
		Raza:             body.Raza,
		Edad:             body.Edad,
		UnidadEdad:       body.UnidadEdad,
		Tamano:           body.Tamano,
		Genero:           body.Genero,
		Historia:         body.Historia,
		URLsImagenes:     body.URLsImagenes,
		TagsSalud:        body.TagsSalud,
		TagsCaracter:     body.TagsCaracter,
		EstaEsterilizado: body.EstaEsterilizado,
		VacunasAlDia:     body.VacunasAlDia,
		Ubicacion:        body.Ubicacion,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

type updateMascotaRequest struct {
	Nombre           *string  `json:"nombre" validate:"omitempty,max=120"`
	Raza             *string  `json:"raza" validate:"omitempty,max=120"`
	Edad             *int     `json:"edad" validate:"omitempty,min=0"`
	UnidadEdad       *string  `json:"unidadEdad" validate:"omitempty"`
	Tamano           *string  `json:"tamano" validate:"omitempty"`
	Historia         *string  `json:"historia" validate:"omitempty,max=5000"`
	URLsImagenes     []string `json:"urlsImagenes" validate:"omitempty,dive,max=500"`
	TagsSalud        []string `json:"tagsSalud" validate:"omitempty,dive,max=80"`
	TagsCaracter     []string `json:"tagsCaracter" validate:"omitempty,dive,max=80"`
	EstaEsterilizado *bool    `json:"estaEsterilizado"`
	VacunasAlDia     *bool    `json:"vacunasAlDia"`
	Ubicacion        *string  `json:"ubicacion" validate:"omitempty,max=200"`
}

func (c *MascotasController) Update(w http.ResponseWriter, r *http.Request) {
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

	var body updateMascotaRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Update(ctx, pets.Actor{ID: actor.UserID, Role: actor.Role}, id, pets.UpdateInput{
		Nombre:           body.Nombre,
		Raza:             body.Raza,
		Edad:             body.Edad,
		UnidadEdad:       body.UnidadEdad,
		Tamano:           body.Tamano,
		Historia:         body.Historia,
		URLsImagenes:     body.URLsImagenes,
		TagsSalud:        body.TagsSalud,
		TagsCaracter:     body.TagsCaracter,
		EstaEsterilizado: body.EstaEsterilizado,
		VacunasAlDia:     body.VacunasAlDia,
		Ubicacion:        body.Ubicacion,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *MascotasController) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := c.svc.Delete(ctx, pets.Actor{ID: actor.UserID, Role: actor.Role}, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
