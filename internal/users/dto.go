package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// UserDTO is the admin-facing JSON shape of a user.
type UserDTO struct {
	ID                 uuid.UUID          `json:"id"`
	Nombre             string             `json:"nombre"`
	Correo             string             `json:"correo"`
	Telefono           *string            `json:"telefono,omitempty"`
	Ciudad             *string            `json:"ciudad,omitempty"`
	Pais               *string            `json:"pais,omitempty"`
	TipoUsuario        enums.UserRole     `json:"tipoUsuario"`
	EstadoCuenta       enums.AccountState `json:"estadoCuenta"`
	DireccionResguardo *string            `json:"direccionResguardo,omitempty"`
	CapacidadMaxima    *int               `json:"capacidadMaxima,omitempty"`
	FotoPerfil         *string            `json:"fotoPerfil,omitempty"`
	FechaEliminacion   *time.Time         `json:"fechaEliminacion,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func toUserDTO(row *models.Usuario) *UserDTO {
	if row == nil {
		return nil
	}
	return &UserDTO{
		ID:                 row.ID,
		Nombre:             row.Nombre,
		Correo:             row.Correo,
		Telefono:           row.Telefono,
		Ciudad:             row.Ciudad,
		Pais:               row.Pais,
		TipoUsuario:        row.TipoUsuario,
		EstadoCuenta:       row.EstadoCuenta,
		DireccionResguardo: row.DireccionResguardo,
		CapacidadMaxima:    row.CapacidadMaxima,
		FotoPerfil:         row.FotoPerfil,
		FechaEliminacion:   row.FechaEliminacion,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func toUserDTOs(rows []models.Usuario) []UserDTO {
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toUserDTO(&rows[i]))
	}
	return out
}
