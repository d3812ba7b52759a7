package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// RespuestaAdmin records the administrator decision stamped on account requests.
type RespuestaAdmin struct {
	Comentario     *string    `gorm:"column:respuesta_comentario;type:text"`
	RespondidoPor  *uuid.UUID `gorm:"column:respuesta_respondido_por;type:uuid"`
	FechaRespuesta *time.Time `gorm:"column:respuesta_fecha;type:timestamptz"`
}

// SolicitudCambioRol is a user's petition to become a Rescatista.
type SolicitudCambioRol struct {
	ID         uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UsuarioID  uuid.UUID                  `gorm:"column:usuario_id;type:uuid;not null;index"`
	NuevoRol   enums.UserRole             `gorm:"column:nuevo_rol;type:text;not null"`
	Motivacion string                     `gorm:"type:text;not null"`
	Detalles   *string                    `gorm:"type:text"`
	Estado     enums.AccountRequestStatus `gorm:"type:text;not null;default:'Pendiente'"`
	Respuesta  RespuestaAdmin             `gorm:"embedded"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SolicitudCambioRol) TableName() string { return "solicitudes_cambio_rol" }
