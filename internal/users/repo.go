package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Filters narrows the admin user listing. Nil fields are ignored.
type Filters struct {
	TipoUsuario  *enums.UserRole
	EstadoCuenta *enums.AccountState
}

// Repository persists user records and the cascades a hard delete triggers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	List(ctx context.Context, filters Filters) ([]models.Usuario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error)
	SetAccountState(ctx context.Context, id uuid.UUID, estado enums.AccountState) error
	Update(ctx context.Context, user *models.Usuario) error
	Delete(ctx context.Context, id uuid.UUID) error

	OrphanPetsOfRescatista(ctx context.Context, rescatistaID uuid.UUID) (int64, error)
	DeleteRequestsNamingUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteAccountRequestsOfUser(ctx context.Context, userID uuid.UUID) error
	DeleteNotificationsOfUser(ctx context.Context, userID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a users repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) List(ctx context.Context, filters Filters) ([]models.Usuario, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filters.TipoUsuario != nil {
		query = query.Where("tipo_usuario = ?", *filters.TipoUsuario)
	}
	if filters.EstadoCuenta != nil {
		query = query.Where("estado_cuenta = ?", *filters.EstadoCuenta)
	}

	var users []models.Usuario
	err := query.Find(&users).Error
	return users, err
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error) {
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

func (r *repositoryImpl) SetAccountState(ctx context.Context, id uuid.UUID, estado enums.AccountState) error {
	return r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("id = ?", id).
		Update("estado_cuenta", estado).Error
}

func (r *repositoryImpl) Update(ctx context.Context, user *models.Usuario) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Usuario{}, "id = ?", id).Error
}

func (r *repositoryImpl) OrphanPetsOfRescatista(ctx context.Context, rescatistaID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Mascota{}).
		Where("rescatista_id = ?", rescatistaID).
		Update("rescatista_id", nil)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteRequestsNamingUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.SolicitudAdopcion{}, "adoptante_id = ? OR rescatista_id = ?", userID, userID)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteAccountRequestsOfUser(ctx context.Context, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.SolicitudCambioRol{}, "usuario_id = ?", userID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.SolicitudEliminacionCuenta{}, "usuario_id = ?", userID).Error
}

func (r *repositoryImpl) DeleteNotificationsOfUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Notificacion{}, "usuario_id = ?", userID).Error
}
