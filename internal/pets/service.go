package pets

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/pagination"
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

// Service manages the pet listing catalog.
type Service interface {
	List(ctx context.Context, input ListInput) (*PetPage, error)
	Get(ctx context.Context, id uuid.UUID) (*PetDTO, error)
	MyPets(ctx context.Context, actor Actor) ([]PetDTO, error)
	Create(ctx context.Context, actor Actor, input CreateInput) (*PetDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*PetDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

// ListInput carries raw listing filters before validation.
type ListInput struct {
	TipoAnimal string
	Genero     string
	Ubicacion  string
	Disponible *bool
	Pagination pagination.Params
}

// CreateInput carries a new pet listing.
type CreateInput struct {
	Nombre           string
	TipoAnimal       string
	Raza             string
	Edad             int
	UnidadEdad       string
	Tamano           string
	Genero           string
	Historia         *string
	URLsImagenes     []string
	TagsSalud        []string
	TagsCaracter     []string
	EstaEsterilizado bool
	VacunasAlDia     bool
	Ubicacion        *string
}

// UpdateInput mutates a listing. Nil fields are left untouched. The adoption
// state is owned by the request lifecycle and cannot be set here.
type UpdateInput struct {
	Nombre           *string
	Raza             *string
	Edad             *int
	UnidadEdad       *string
	Tamano           *string
	Historia         *string
	URLsImagenes     []string
	TagsSalud        []string
	TagsCaracter     []string
	EstaEsterilizado *bool
	VacunasAlDia     *bool
	Ubicacion        *string
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the pet catalog dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pets repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*PetPage, error) {
	filters := Filters{Disponible: input.Disponible}

	if v := strings.TrimSpace(input.TipoAnimal); v != "" {
		tipo, err := enums.ParseAnimalType(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tipoAnimal inválido")
		}
		filters.TipoAnimal = &tipo
	}
	if v := strings.TrimSpace(input.Genero); v != "" {
		genero := enums.PetGender(v)
		if !genero.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "genero inválido")
		}
		filters.Genero = &genero
	}
	if v := strings.TrimSpace(input.Ubicacion); v != "" {
		filters.Ubicacion = &v
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cursor inválido")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, filters, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pets")
	}

	page := &PetPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}
	page.Items = toPetDTOs(rows)
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PetDTO, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
	}
	if pet == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mascota no encontrada")
	}
	return toPetDTO(pet), nil
}

func (s *service) MyPets(ctx context.Context, actor Actor) ([]PetDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	rows, err := s.repo.ListByRescatista(ctx, actor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own pets")
	}
	return toPetDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*PetDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.Role != enums.UserRoleRescatista && !actor.isAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "solo Rescatistas pueden publicar mascotas")
	}

	pet, err := buildPet(actor.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, pet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist pet")
	}
	return toPetDTO(pet), nil
}

func buildPet(ownerID uuid.UUID, input CreateInput) (*models.Mascota, error) {
	nombre := strings.TrimSpace(input.Nombre)
	if nombre == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
	}
	tipo, err := enums.ParseAnimalType(strings.TrimSpace(input.TipoAnimal))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tipoAnimal inválido")
	}
	if input.Edad < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "edad no puede ser negativa")
	}
	unidad := enums.AgeUnit(strings.TrimSpace(input.UnidadEdad))
	if !unidad.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unidadEdad inválida")
	}
	tamano := enums.PetSize(strings.TrimSpace(input.Tamano))
	if !tamano.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tamano inválido")
	}
	genero := enums.PetGender(strings.TrimSpace(input.Genero))
	if !genero.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "genero inválido")
	}

	raza := strings.TrimSpace(input.Raza)
	if raza == "" {
		raza = "Mestizo"
	}

	owner := ownerID
	return &models.Mascota{
		Nombre:           nombre,
		TipoAnimal:       tipo,
		Raza:             raza,
		Edad:             input.Edad,
		UnidadEdad:       unidad,
		Tamano:           tamano,
		Genero:           genero,
		Historia:         input.Historia,
		URLsImagenes:     emptyIfNil(input.URLsImagenes),
		TagsSalud:        emptyIfNil(input.TagsSalud),
		TagsCaracter:     emptyIfNil(input.TagsCaracter),
		EstaEsterilizado: input.EstaEsterilizado,
		VacunasAlDia:     input.VacunasAlDia,
		EstadoAdopcion:   enums.AdoptionStateDisponible,
		Ubicacion:        input.Ubicacion,
		RescatistaID:     &owner,
	}, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateInput) (*PetDTO, error) {
	var updated *models.Mascota
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pet, err := repo.GetByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
		}
		if pet == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mascota no encontrada")
		}
		if err := authorizeOwner(actor, pet); err != nil {
			return err
		}
		if err := applyUpdate(pet, input); err != nil {
			return err
		}
		if err := repo.Update(ctx, pet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist pet update")
		}
		updated = pet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPetDTO(updated), nil
}

func applyUpdate(pet *models.Mascota, input UpdateInput) error {
	if input.Nombre != nil {
		nombre := strings.TrimSpace(*input.Nombre)
		if nombre == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "nombre requerido")
		}
		pet.Nombre = nombre
	}
	if input.Raza != nil {
		pet.Raza = strings.TrimSpace(*input.Raza)
	}
	if input.Edad != nil {
		if *input.Edad < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "edad no puede ser negativa")
		}
		pet.Edad = *input.Edad
	}
	if input.UnidadEdad != nil {
		unidad := enums.AgeUnit(strings.TrimSpace(*input.UnidadEdad))
		if !unidad.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unidadEdad inválida")
		}
		pet.UnidadEdad = unidad
	}
	if input.Tamano != nil {
		tamano := enums.PetSize(strings.TrimSpace(*input.Tamano))
		if !tamano.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "tamano inválido")
		}
		pet.Tamano = tamano
	}
	if input.Historia != nil {
		pet.Historia = input.Historia
	}
	if input.URLsImagenes != nil {
		pet.URLsImagenes = input.URLsImagenes
	}
	if input.TagsSalud != nil {
		pet.TagsSalud = input.TagsSalud
	}
	if input.TagsCaracter != nil {
		pet.TagsCaracter = input.TagsCaracter
	}
	if input.EstaEsterilizado != nil {
		pet.EstaEsterilizado = *input.EstaEsterilizado
	}
	if input.VacunasAlDia != nil {
		pet.VacunasAlDia = *input.VacunasAlDia
	}
	if input.Ubicacion != nil {
		pet.Ubicacion = input.Ubicacion
	}
	return nil
}

// Delete removes a listing together with every adoption request naming it.
func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pet, err := repo.GetByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pet")
		}
		if pet == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mascota no encontrada")
		}
		if err := authorizeOwner(actor, pet); err != nil {
			return err
		}

		removed, err := repo.DeleteRequestsForPet(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade adoption requests")
		}
		if removed > 0 && s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "mascota_id", id.String()), "cascaded adoption requests on pet delete")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pet")
		}
		return nil
	})
}

func authorizeOwner(actor Actor, pet *models.Mascota) error {
	if actor.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if actor.isAdmin() {
		return nil
	}
	if pet.RescatistaID == nil || *pet.RescatistaID != actor.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "solo el rescatista dueño puede modificar la mascota")
	}
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
