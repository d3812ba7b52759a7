package pets

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// PetDTO is the JSON shape of a pet listing at the API boundary.
type PetDTO struct {
	ID               uuid.UUID           `json:"id"`
	Nombre           string              `json:"nombre"`
	TipoAnimal       enums.AnimalType    `json:"tipoAnimal"`
	Raza             string              `json:"raza"`
	Edad             int                 `json:"edad"`
	UnidadEdad       enums.AgeUnit       `json:"unidadEdad"`
	Tamano           enums.PetSize       `json:"tamano"`
	Genero           enums.PetGender     `json:"genero"`
	Historia         *string             `json:"historia,omitempty"`
	URLsImagenes     []string            `json:"urlsImagenes"`
	TagsSalud        []string            `json:"tagsSalud"`
	TagsCaracter     []string            `json:"tagsCaracter"`
	EstaEsterilizado bool                `json:"estaEsterilizado"`
	VacunasAlDia     bool                `json:"vacunasAlDia"`
	EstadoAdopcion   enums.AdoptionState `json:"estadoAdopcion"`
	Ubicacion        *string             `json:"ubicacion,omitempty"`
	RescatistaID     *uuid.UUID          `json:"rescatistaId,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// PetPage is one cursor page of pet listings.
type PetPage struct {
	Items      []PetDTO `json:"items"`
	NextCursor *string  `json:"nextCursor,omitempty"`
}

func toPetDTO(row *models.Mascota) *PetDTO {
	if row == nil {
		return nil
	}
	return &PetDTO{
		ID:               row.ID,
		Nombre:           row.Nombre,
		TipoAnimal:       row.TipoAnimal,
		Raza:             row.Raza,
		Edad:             row.Edad,
		UnidadEdad:       row.UnidadEdad,
		Tamano:           row.Tamano,
		Genero:           row.Genero,
		Historia:         row.Historia,
		URLsImagenes:     row.URLsImagenes,
		TagsSalud:        row.TagsSalud,
		TagsCaracter:     row.TagsCaracter,
		EstaEsterilizado: row.EstaEsterilizado,
		VacunasAlDia:     row.VacunasAlDia,
		EstadoAdopcion:   row.EstadoAdopcion,
		Ubicacion:        row.Ubicacion,
		RescatistaID:     row.RescatistaID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toPetDTOs(rows []models.Mascota) []PetDTO {
	out := make([]PetDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toPetDTO(&rows[i]))
	}
	return out
}
