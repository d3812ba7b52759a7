package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// SolicitudAdopcion tracks one adopter's request over one pet.
type SolicitudAdopcion struct {
	ID                   uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdoptanteID          uuid.UUID           `gorm:"column:adoptante_id;type:uuid;not null;index"`
	MascotaID            uuid.UUID           `gorm:"column:mascota_id;type:uuid;not null;index"`
	RescatistaID         uuid.UUID           `gorm:"column:rescatista_id;type:uuid;not null;index"`
	PreguntasAdicionales string              `gorm:"column:preguntas_adicionales;type:text;not null"`
	EstadoSolicitud      enums.RequestStatus `gorm:"column:estado_solicitud;type:text;not null;default:'Enviada'"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (SolicitudAdopcion) TableName() string { return "solicitudes_adopcion" }
