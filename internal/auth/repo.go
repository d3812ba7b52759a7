package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
)

// Repository persists user identities for the authentication flows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateUser(ctx context.Context, user *models.Usuario) error
	GetByCorreo(ctx context.Context, correo string) (*models.Usuario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Usuario, error)
	CorreoExists(ctx context.Context, correo string) (bool, error)
	UpdateUser(ctx context.Context, user *models.Usuario) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an auth repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateUser(ctx context.Context, user *models.Usuario) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repositoryImpl) GetByCorreo(ctx context.Context, correo string) (*models.Usuario, error) {
	var user models.Usuario
	err := r.db.WithContext(ctx).First(&user, "lower(correo) = ?", strings.ToLower(correo)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
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

func (r *repositoryImpl) CorreoExists(ctx context.Context, correo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("lower(correo) = ?", strings.ToLower(correo)).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) UpdateUser(ctx context.Context, user *models.Usuario) error {
	return r.db.WithContext(ctx).Save(user).Error
}
