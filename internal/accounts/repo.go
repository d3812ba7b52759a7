package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Repository persists account lifecycle requests plus the user mutations their
// approvals trigger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRoleChange(ctx context.Context, request *models.SolicitudCambioRol) error
	GetRoleChange(ctx context.Context, id uuid.UUID) (*models.SolicitudCambioRol, error)
	PendingRoleChangeExists(ctx context.Context, usuarioID uuid.UUID) (bool, error)
	ListRoleChanges(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudCambioRol, error)
	ListRoleChangesByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudCambioRol, error)
	UpdateRoleChangeDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error
	DeleteRoleChange(ctx context.Context, id uuid.UUID) error

	CreateDeletion(ctx context.Context, request *models.SolicitudEliminacionCuenta) error
	GetDeletion(ctx context.Context, id uuid.UUID) (*models.SolicitudEliminacionCuenta, error)
	PendingDeletionExists(ctx context.Context, usuarioID uuid.UUID) (bool, error)
	ListDeletions(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudEliminacionCuenta, error)
	ListDeletionsByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudEliminacionCuenta, error)
	UpdateDeletionDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error
	DeleteDeletion(ctx context.Context, id uuid.UUID) error

	GetUsuario(ctx context.Context, id uuid.UUID) (*models.Usuario, error)
	SetUserRole(ctx context.Context, usuarioID uuid.UUID, role enums.UserRole) error
	SoftDeleteUser(ctx context.Context, usuarioID uuid.UUID, at time.Time) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an accounts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateRoleChange(ctx context.Context, request *models.SolicitudCambioRol) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) GetRoleChange(ctx context.Context, id uuid.UUID) (*models.SolicitudCambioRol, error) {
	var request models.SolicitudCambioRol
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) PendingRoleChangeExists(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SolicitudCambioRol{}).
		Where("usuario_id = ? AND estado = ?", usuarioID, enums.AccountRequestStatusPendiente).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) ListRoleChanges(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudCambioRol, error) {
	var requests []models.SolicitudCambioRol
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if estado != nil {
		query = query.Where("estado = ?", *estado)
	}
	err := query.Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) ListRoleChangesByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudCambioRol, error) {
	var requests []models.SolicitudCambioRol
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) UpdateRoleChangeDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error {
	return r.db.WithContext(ctx).
		Model(&models.SolicitudCambioRol{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"estado":                   estado,
			"respuesta_comentario":     respuesta.Comentario,
			"respuesta_respondido_por": respuesta.RespondidoPor,
			"respuesta_fecha":          respuesta.FechaRespuesta,
		}).Error
}

func (r *repositoryImpl) DeleteRoleChange(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SolicitudCambioRol{}, "id = ?", id).Error
}

func (r *repositoryImpl) CreateDeletion(ctx context.Context, request *models.SolicitudEliminacionCuenta) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) GetDeletion(ctx context.Context, id uuid.UUID) (*models.SolicitudEliminacionCuenta, error) {
	var request models.SolicitudEliminacionCuenta
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) PendingDeletionExists(ctx context.Context, usuarioID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SolicitudEliminacionCuenta{}).
		Where("usuario_id = ? AND estado = ?", usuarioID, enums.AccountRequestStatusPendiente).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) ListDeletions(ctx context.Context, estado *enums.AccountRequestStatus) ([]models.SolicitudEliminacionCuenta, error) {
	var requests []models.SolicitudEliminacionCuenta
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if estado != nil {
		query = query.Where("estado = ?", *estado)
	}
	err := query.Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) ListDeletionsByUser(ctx context.Context, usuarioID uuid.UUID) ([]models.SolicitudEliminacionCuenta, error) {
	var requests []models.SolicitudEliminacionCuenta
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) UpdateDeletionDecision(ctx context.Context, id uuid.UUID, estado enums.AccountRequestStatus, respuesta models.RespuestaAdmin) error {
	return r.db.WithContext(ctx).
		Model(&models.SolicitudEliminacionCuenta{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"estado":                   estado,
			"respuesta_comentario":     respuesta.Comentario,
			"respuesta_respondido_por": respuesta.RespondidoPor,
			"respuesta_fecha":          respuesta.FechaRespuesta,
		}).Error
}

func (r *repositoryImpl) DeleteDeletion(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SolicitudEliminacionCuenta{}, "id = ?", id).Error
}

func (r *repositoryImpl) GetUsuario(ctx context.Context, id uuid.UUID) (*models.Usuario, error) {
	var user models.Usuario
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repositoryImpl) SetUserRole(ctx context.Context, usuarioID uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("id = ?", usuarioID).
		Update("tipo_usuario", role).Error
}

func (r *repositoryImpl) SoftDeleteUser(ctx context.Context, usuarioID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("id = ?", usuarioID).
		Update("fecha_eliminacion", at).Error
}
