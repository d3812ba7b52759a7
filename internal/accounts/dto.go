package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// RespuestaAdminDTO exposes the decision stamp at the API boundary.
type RespuestaAdminDTO struct {
	Comentario     *string    `json:"comentario,omitempty"`
	RespondidoPor  *uuid.UUID `json:"respondidoPor,omitempty"`
	FechaRespuesta *time.Time `json:"fechaRespuesta,omitempty"`
}

// RoleChangeDTO is the JSON shape of a role change request.
type RoleChangeDTO struct {
	ID         uuid.UUID                  `json:"id"`
	UsuarioID  uuid.UUID                  `json:"usuarioId"`
	NuevoRol   enums.UserRole             `json:"nuevoRol"`
	Motivacion string                     `json:"motivacion"`
	Detalles   *string                    `json:"detalles,omitempty"`
	Estado     enums.AccountRequestStatus `json:"estado"`
	Respuesta  *RespuestaAdminDTO         `json:"respuestaAdmin,omitempty"`
	CreatedAt  time.Time                  `json:"createdAt"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// DeletionDTO is the JSON shape of an account deletion request.
type DeletionDTO struct {
	ID               uuid.UUID                  `json:"id"`
	UsuarioID        uuid.UUID                  `json:"usuarioId"`
	RazonEliminacion enums.DeletionReason       `json:"razonEliminacion"`
	Detalles         *string                    `json:"detalles,omitempty"`
	Estado           enums.AccountRequestStatus `json:"estado"`
	Respuesta        *RespuestaAdminDTO         `json:"respuestaAdmin,omitempty"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

func toRespuestaDTO(r models.RespuestaAdmin) *RespuestaAdminDTO {
	if r.Comentario == nil && r.RespondidoPor == nil && r.FechaRespuesta == nil {
		return nil
	}
	return &RespuestaAdminDTO{
		Comentario:     r.Comentario,
		RespondidoPor:  r.RespondidoPor,
		FechaRespuesta: r.FechaRespuesta,
	}
}

func toRoleChangeDTO(row *models.SolicitudCambioRol) *RoleChangeDTO {
	if row == nil {
		return nil
	}
	return &RoleChangeDTO{
		ID:         row.ID,
		UsuarioID:  row.UsuarioID,
		NuevoRol:   row.NuevoRol,
		Motivacion: row.Motivacion,
		Detalles:   row.Detalles,
		Estado:     row.Estado,
		Respuesta:  toRespuestaDTO(row.Respuesta),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toRoleChangeDTOs(rows []models.SolicitudCambioRol) []RoleChangeDTO {
	out := make([]RoleChangeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toRoleChangeDTO(&rows[i]))
	}
	return out
}

func toDeletionDTO(row *models.SolicitudEliminacionCuenta) *DeletionDTO {
	if row == nil {
		return nil
	}
	return &DeletionDTO{
		ID:               row.ID,
		UsuarioID:        row.UsuarioID,
		RazonEliminacion: row.RazonEliminacion,
		Detalles:         row.Detalles,
		Estado:           row.Estado,
		Respuesta:        toRespuestaDTO(row.Respuesta),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toDeletionDTOs(rows []models.SolicitudEliminacionCuenta) []DeletionDTO {
	out := make([]DeletionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDeletionDTO(&rows[i]))
	}
	return out
}
