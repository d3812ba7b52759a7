package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

const defaultListLimit = 20

// Sink records a notification and pushes it to realtime subscribers. Domain
// services receive it injected, never as ambient state.
type Sink interface {
	RecordAndBroadcast(ctx context.Context, note Note) error
}

// Note describes one notification to deliver.
type Note struct {
	UsuarioID      uuid.UUID
	Tipo           enums.NotificationType
	Titulo         string
	Mensaje        string
	Icono          *string
	ReferenciaID   *uuid.UUID
	ReferenciaTipo *string
}

// Service defines notification operations.
type Service interface {
	Sink
	List(ctx context.Context, usuarioID uuid.UUID) ([]models.Notificacion, error)
	MarkRead(ctx context.Context, usuarioID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, usuarioID uuid.UUID) (int64, error)
	Delete(ctx context.Context, usuarioID, notificationID uuid.UUID) error
	CountUnread(ctx context.Context, usuarioID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

type service struct {
	repo        Repository
	broadcaster Broadcaster
	logg        *logger.Logger
}

// NewService wires notifications dependencies. The broadcaster may be nil when
// realtime delivery is disabled.
func NewService(repo Repository, broadcaster Broadcaster, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, broadcaster: broadcaster, logg: logg}, nil
}

func (s *service) RecordAndBroadcast(ctx context.Context, note Note) error {
	if note.UsuarioID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "usuario id required")
	}
	if !note.Tipo.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if note.Titulo == "" || note.Mensaje == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "titulo and mensaje required")
	}

	row := &models.Notificacion{
		UsuarioID:      note.UsuarioID,
		Tipo:           note.Tipo,
		Titulo:         note.Titulo,
		Mensaje:        note.Mensaje,
		Icono:          note.Icono,
		ReferenciaID:   note.ReferenciaID,
		ReferenciaTipo: note.ReferenciaTipo,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist notification")
	}

	if s.broadcaster != nil {
		event := BroadcastEvent{
			NotificacionID: row.ID,
			UsuarioID:      row.UsuarioID,
			Tipo:           row.Tipo,
			Titulo:         row.Titulo,
			Mensaje:        row.Mensaje,
			Icono:          row.Icono,
			CreatedAt:      row.CreatedAt,
		}
		if err := s.broadcaster.Broadcast(ctx, event); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "usuario_id", row.UsuarioID.String()), "notification broadcast failed")
		}
	}
	return nil
}

func (s *service) List(ctx context.Context, usuarioID uuid.UUID) ([]models.Notificacion, error) {
	if usuarioID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usuario id required")
	}
	rows, err := s.repo.List(ctx, usuarioID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

func (s *service) MarkRead(ctx context.Context, usuarioID, notificationID uuid.UUID) error {
	if usuarioID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "usuario id and notification id required")
	}

	result, err := s.repo.MarkRead(ctx, usuarioID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	if usuarioID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "usuario id required")
	}
	count, err := s.repo.MarkAllRead(ctx, usuarioID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, usuarioID, notificationID uuid.UUID) error {
	if usuarioID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "usuario id and notification id required")
	}
	deleted, err := s.repo.Delete(ctx, usuarioID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) CountUnread(ctx context.Context, usuarioID uuid.UUID) (int64, error) {
	if usuarioID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "usuario id required")
	}
	count, err := s.repo.CountUnread(ctx, usuarioID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	cutoff := time.Now().UTC().Add(-retention)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge notifications")
	}
	return deleted, nil
}
