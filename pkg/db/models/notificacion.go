package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Notificacion stores in-app notification payloads scoped to users.
type Notificacion struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UsuarioID      uuid.UUID              `gorm:"column:usuario_id;type:uuid;not null;index"`
	Tipo           enums.NotificationType `gorm:"type:text;not null"`
	Titulo         string                 `gorm:"type:text;not null"`
	Mensaje        string                 `gorm:"type:text;not null"`
	Icono          *string                `gorm:"type:text"`
	Leida          bool                   `gorm:"not null;default:false"`
	ReferenciaID   *uuid.UUID             `gorm:"column:referencia_id;type:uuid"`
	ReferenciaTipo *string                `gorm:"column:referencia_tipo;type:text"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime;index"`
}

func (Notificacion) TableName() string { return "notificaciones" }
