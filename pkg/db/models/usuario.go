package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Usuario represents the canonical identity entity.
type Usuario struct {
	ID                 uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Nombre             string             `gorm:"type:text;not null"`
	Correo             string             `gorm:"type:text;not null;uniqueIndex"`
	ContrasenaHash     string             `gorm:"column:contrasena_hash;not null"`
	Telefono           *string            `gorm:"type:text"`
	Ciudad             *string            `gorm:"type:text"`
	Pais               *string            `gorm:"type:text"`
	TipoUsuario        enums.UserRole     `gorm:"column:tipo_usuario;type:text;not null"`
	EstadoCuenta       enums.AccountState `gorm:"column:estado_cuenta;type:text;not null"`
	DireccionResguardo *string            `gorm:"column:direccion_resguardo"`
	CapacidadMaxima    *int               `gorm:"column:capacidad_maxima"`
	FotoPerfil         *string            `gorm:"column:foto_perfil"`
	FechaEliminacion   *time.Time         `gorm:"column:fecha_eliminacion;type:timestamptz"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Usuario) TableName() string { return "usuarios" }

// Eliminado reports whether the account was soft deleted.
func (u *Usuario) Eliminado() bool {
	return u.FechaEliminacion != nil
}
