package pets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	"github.com/katzeapp/katze-backend/pkg/pagination"
)

// Filters narrows pet listings. Nil fields are ignored.
type Filters struct {
	TipoAnimal *enums.AnimalType
	Genero     *enums.PetGender
	Ubicacion  *string
	Disponible *bool
}

// Repository persists pet listings and their adoption request cascade.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, pet *models.Mascota) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mascota, error)
	List(ctx context.Context, filters Filters, cursor *pagination.Cursor, limit int) ([]models.Mascota, error)
	ListByRescatista(ctx context.Context, rescatistaID uuid.UUID) ([]models.Mascota, error)
	Update(ctx context.Context, pet *models.Mascota) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteRequestsForPet(ctx context.Context, mascotaID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a pets repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, pet *models.Mascota) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Mascota, error) {
	var pet models.Mascota
	err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *repositoryImpl) List(ctx context.Context, filters Filters, cursor *pagination.Cursor, limit int) ([]models.Mascota, error) {
	query := r.db.WithContext(ctx).Model(&models.Mascota{})

	if filters.TipoAnimal != nil {
		query = query.Where("tipo_animal = ?", *filters.TipoAnimal)
	}
	if filters.Genero != nil {
		query = query.Where("genero = ?", *filters.Genero)
	}
	if filters.Ubicacion != nil {
		query = query.Where("ubicacion ILIKE ?", "%"+*filters.Ubicacion+"%")
	}
	if filters.Disponible != nil {
		if *filters.Disponible {
			query = query.Where("estado_adopcion = ?", enums.AdoptionStateDisponible)
		} else {
			query = query.Where("estado_adopcion <> ?", enums.AdoptionStateDisponible)
		}
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var pets []models.Mascota
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&pets).Error
	return pets, err
}

func (r *repositoryImpl) ListByRescatista(ctx context.Context, rescatistaID uuid.UUID) ([]models.Mascota, error) {
	var pets []models.Mascota
	err := r.db.WithContext(ctx).
		Where("rescatista_id = ?", rescatistaID).
		Order("created_at DESC").
		Find(&pets).Error
	return pets, err
}

func (r *repositoryImpl) Update(ctx context.Context, pet *models.Mascota) error {
	return r.db.WithContext(ctx).Save(pet).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Mascota{}, "id = ?", id).Error
}

func (r *repositoryImpl) DeleteRequestsForPet(ctx context.Context, mascotaID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.SolicitudAdopcion{}, "mascota_id = ?", mascotaID)
	return result.RowsAffected, result.Error
}
