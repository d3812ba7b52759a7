package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// SolicitudEliminacionCuenta is a user's petition to have their account removed.
type SolicitudEliminacionCuenta struct {
	ID               uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UsuarioID        uuid.UUID                  `gorm:"column:usuario_id;type:uuid;not null;index"`
	RazonEliminacion enums.DeletionReason       `gorm:"column:razon_eliminacion;type:text;not null"`
	Detalles         *string                    `gorm:"type:text"`
	Estado           enums.AccountRequestStatus `gorm:"type:text;not null;default:'Pendiente'"`
	Respuesta        RespuestaAdmin             `gorm:"embedded"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SolicitudEliminacionCuenta) TableName() string { return "solicitudes_eliminacion_cuenta" }
