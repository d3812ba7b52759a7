package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// UserDTO is the JSON shape of a user at the API boundary. The password hash
// never leaves the service layer.
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
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// AuthResponse pairs the minted token with the authenticated user.
type AuthResponse struct {
	Token   string  `json:"token"`
	Usuario UserDTO `json:"usuario"`
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
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
