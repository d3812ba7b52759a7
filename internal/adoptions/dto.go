package adoptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// RequestDTO is the JSON shape of an adoption request at the API boundary.
type RequestDTO struct {
	ID                   uuid.UUID           `json:"id"`
	AdoptanteID          uuid.UUID           `json:"adoptanteId"`
	MascotaID            uuid.UUID           `json:"mascotaId"`
	RescatistaID         uuid.UUID           `json:"rescatistaId"`
	PreguntasAdicionales string              `json:"preguntasAdicionales"`
	EstadoSolicitud      enums.RequestStatus `json:"estadoSolicitud"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func toRequestDTO(row *models.SolicitudAdopcion) *RequestDTO {
	if row == nil {
		return nil
	}
	return &RequestDTO{
		ID:                   row.ID,
		AdoptanteID:          row.AdoptanteID,
		MascotaID:            row.MascotaID,
		RescatistaID:         row.RescatistaID,
		PreguntasAdicionales: row.PreguntasAdicionales,
		EstadoSolicitud:      row.EstadoSolicitud,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func toRequestDTOs(rows []models.SolicitudAdopcion) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toRequestDTO(&rows[i]))
	}
	return out
}
