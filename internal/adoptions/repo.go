package adoptions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Repository exposes persistence helpers for the adoption lifecycle. Pet state
// writes live here too so the whole transition commits in one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, request *models.SolicitudAdopcion) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SolicitudAdopcion, error)
	ExistsNonTerminal(ctx context.Context, adoptanteID, mascotaID uuid.UUID) (bool, error)
	ListNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) ([]models.SolicitudAdopcion, error)
	CountNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error
	SweepNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID, to enums.RequestStatus) (int64, error)
	ListByAdoptante(ctx context.Context, adoptanteID uuid.UUID) ([]models.SolicitudAdopcion, error)
	ListByRescatista(ctx context.Context, rescatistaID uuid.UUID) ([]models.SolicitudAdopcion, error)
	ListAll(ctx context.Context) ([]models.SolicitudAdopcion, error)

	GetPet(ctx context.Context, mascotaID uuid.UUID) (*models.Mascota, error)
	ClaimPetPending(ctx context.Context, mascotaID uuid.UUID) (bool, error)
	SetPetState(ctx context.Context, mascotaID uuid.UUID, state enums.AdoptionState) error
	SetPetOwner(ctx context.Context, mascotaID, ownerID uuid.UUID) error
	FirstAdministrador(ctx context.Context) (*models.Usuario, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an adoptions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

var nonTerminalStatuses = []enums.RequestStatus{
	enums.RequestStatusEnviada,
	enums.RequestStatusRevisando,
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.SolicitudAdopcion) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.SolicitudAdopcion, error) {
	var request models.SolicitudAdopcion
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) ExistsNonTerminal(ctx context.Context, adoptanteID, mascotaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SolicitudAdopcion{}).
		Where("adoptante_id = ? AND mascota_id = ? AND estado_solicitud IN ?", adoptanteID, mascotaID, nonTerminalStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) ListNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var requests []models.SolicitudAdopcion
	query := r.db.WithContext(ctx).
		Where("mascota_id = ? AND estado_solicitud IN ?", mascotaID, nonTerminalStatuses)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repositoryImpl) CountNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.SolicitudAdopcion{}).
		Where("mascota_id = ? AND estado_solicitud IN ?", mascotaID, nonTerminalStatuses)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SolicitudAdopcion{}).
		Where("id = ?", id).
		Update("estado_solicitud", status).Error
}

func (r *repositoryImpl) SweepNonTerminalForPet(ctx context.Context, mascotaID uuid.UUID, excludeID uuid.UUID, to enums.RequestStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.SolicitudAdopcion{}).
		Where("mascota_id = ? AND estado_solicitud IN ?", mascotaID, nonTerminalStatuses)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	result := query.Update("estado_solicitud", to)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) ListByAdoptante(ctx context.Context, adoptanteID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var requests []models.SolicitudAdopcion
	err := r.db.WithContext(ctx).
		Where("adoptante_id = ?", adoptanteID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) ListByRescatista(ctx context.Context, rescatistaID uuid.UUID) ([]models.SolicitudAdopcion, error) {
	var requests []models.SolicitudAdopcion
	err := r.db.WithContext(ctx).
		Where("rescatista_id = ?", rescatistaID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) ListAll(ctx context.Context) ([]models.SolicitudAdopcion, error) {
	var requests []models.SolicitudAdopcion
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repositoryImpl) GetPet(ctx context.Context, mascotaID uuid.UUID) (*models.Mascota, error) {
	var pet models.Mascota
	err := r.db.WithContext(ctx).First(&pet, "id = ?", mascotaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

// ClaimPetPending flips a Disponible pet to Pendiente with a conditional
// update. Zero rows affected means another request won the race or the pet is
// not available.
func (r *repositoryImpl) ClaimPetPending(ctx context.Context, mascotaID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Mascota{}).
		Where("id = ? AND estado_adopcion = ?", mascotaID, enums.AdoptionStateDisponible).
		Update("estado_adopcion", enums.AdoptionStatePendiente)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) SetPetState(ctx context.Context, mascotaID uuid.UUID, state enums.AdoptionState) error {
	return r.db.WithContext(ctx).
		Model(&models.Mascota{}).
		Where("id = ?", mascotaID).
		Update("estado_adopcion", state).Error
}

func (r *repositoryImpl) SetPetOwner(ctx context.Context, mascotaID, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Mascota{}).
		Where("id = ?", mascotaID).
		Update("rescatista_id", ownerID).Error
}

func (r *repositoryImpl) FirstAdministrador(ctx context.Context) (*models.Usuario, error) {
	var admin models.Usuario
	err := r.db.WithContext(ctx).
		Where("tipo_usuario = ? AND fecha_eliminacion IS NULL", enums.UserRoleAdministrador).
		Order("created_at ASC").
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
