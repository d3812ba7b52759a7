package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// NotificationDTO is the wire shape of one notification.
type NotificationDTO struct {
	ID             uuid.UUID              `json:"id"`
	Tipo           enums.NotificationType `json:"tipo"`
	Titulo         string                 `json:"titulo"`
	Mensaje        string                 `json:"mensaje"`
	Icono          *string                `json:"icono,omitempty"`
	Leida          bool                   `json:"leida"`
	ReferenciaID   *uuid.UUID             `json:"referenciaId,omitempty"`
	ReferenciaTipo *string                `json:"referenciaTipo,omitempty"`
	FechaCreacion  time.Time              `json:"fechaCreacion"`
}

// ToDTO converts a stored notification to its wire shape.
func ToDTO(row models.Notificacion) NotificationDTO {
	return NotificationDTO{
		ID:             row.ID,
		Tipo:           row.Tipo,
		Titulo:         row.Titulo,
		Mensaje:        row.Mensaje,
		Icono:          row.Icono,
		Leida:          row.Leida,
		ReferenciaID:   row.ReferenciaID,
		ReferenciaTipo: row.ReferenciaTipo,
		FechaCreacion:  row.CreatedAt,
	}
}

// ToDTOs converts a slice of stored notifications, never returning nil so the
// JSON encoder emits an empty array.
func ToDTOs(rows []models.Notificacion) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToDTO(row))
	}
	return out
}
