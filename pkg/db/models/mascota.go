package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/katzeapp/katze-backend/pkg/db/types"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Mascota is a pet listed for adoption by a rescuer.
type Mascota struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Nombre           string              `gorm:"type:text;not null"`
	TipoAnimal       enums.AnimalType    `gorm:"column:tipo_animal;type:text;not null"`
	Raza             string              `gorm:"type:text;not null;default:'Mestizo'"`
	Edad             int                 `gorm:"not null"`
	UnidadEdad       enums.AgeUnit       `gorm:"column:unidad_edad;type:text;not null"`
	Tamano           enums.PetSize       `gorm:"type:text;not null"`
	Genero           enums.PetGender     `gorm:"type:text;not null"`
	Historia         *string             `gorm:"type:text"`
	URLsImagenes     dbtypes.StringArray `gorm:"column:urls_imagenes;type:jsonb;not null;default:'[]'"`
	TagsSalud        dbtypes.StringArray `gorm:"column:tags_salud;type:jsonb;not null;default:'[]'"`
	TagsCaracter     dbtypes.StringArray `gorm:"column:tags_caracter;type:jsonb;not null;default:'[]'"`
	EstaEsterilizado bool                `gorm:"column:esta_esterilizado;not null;default:false"`
	VacunasAlDia     bool                `gorm:"column:vacunas_al_dia;not null;default:false"`
	EstadoAdopcion   enums.AdoptionState `gorm:"column:estado_adopcion;type:text;not null;default:'Disponible'"`
	Ubicacion        *string             `gorm:"type:text"`
	// RescatistaID goes nil only transiently after the owner account is removed.
	RescatistaID *uuid.UUID `gorm:"column:rescatista_id;type:uuid;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Mascota) TableName() string { return "mascotas" }
