package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	"github.com/katzeapp/katze-backend/pkg/pagination"
)

// Repository persists community posts, likes and comments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, categoria *enums.PostCategory, cursor *pagination.Cursor, limit int) ([]models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error

	LikeExists(ctx context.Context, postID, usuarioID uuid.UUID) (bool, error)
	CreateLike(ctx context.Context, like *models.PostLike) error
	DeleteLike(ctx context.Context, postID, usuarioID uuid.UUID) error
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)

	CreateComment(ctx context.Context, comment *models.Comentario) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comentario, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comentario, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	DeleteCommentReplies(ctx context.Context, parentID uuid.UUID) error
	DeletePostDependents(ctx context.Context, postID uuid.UUID) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a posts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repositoryImpl) List(ctx context.Context, categoria *enums.PostCategory, cursor *pagination.Cursor, limit int) ([]models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if categoria != nil {
		query = query.Where("categoria = ?", *categoria)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var posts []models.Post
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error
}

func (r *repositoryImpl) LikeExists(ctx context.Context, postID, usuarioID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND usuario_id = ?", postID, usuarioID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) CreateLike(ctx context.Context, like *models.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *repositoryImpl) DeleteLike(ctx context.Context, postID, usuarioID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.PostLike{}, "post_id = ? AND usuario_id = ?", postID, usuarioID).Error
}

func (r *repositoryImpl) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CreateComment(ctx context.Context, comment *models.Comentario) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repositoryImpl) GetComment(ctx context.Context, id uuid.UUID) (*models.Comentario, error) {
	var comment models.Comentario
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repositoryImpl) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comentario, error) {
	var comments []models.Comentario
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *repositoryImpl) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comentario{}, "id = ?", id).Error
}

func (r *repositoryImpl) DeleteCommentReplies(ctx context.Context, parentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Comentario{}, "parent_id = ?", parentID).Error
}

func (r *repositoryImpl) DeletePostDependents(ctx context.Context, postID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&models.PostLike{}, "post_id = ?", postID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Comentario{}, "post_id = ?", postID).Error
}
