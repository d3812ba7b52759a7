package posts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/pagination"
)

const maxContenidoLen = 5000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == enums.UserRoleAdministrador
}

// Service is the community board surface.
type Service interface {
	List(ctx context.Context, input ListInput) (*PostPage, error)
	Get(ctx context.Context, id uuid.UUID) (*PostDTO, error)
	Create(ctx context.Context, actor Actor, input CreateInput) (*PostDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error

	ToggleLike(ctx context.Context, actor Actor, postID uuid.UUID) (liked bool, likes int64, err error)

	Comment(ctx context.Context, actor Actor, input CommentInput) (*CommentDTO, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error)
	DeleteComment(ctx context.Context, actor Actor, commentID uuid.UUID) error
}

// ListInput carries raw listing filters before validation.
type ListInput struct {
	Categoria  string
	Pagination pagination.Params
}

// CreateInput carries a new post.
type CreateInput struct {
	Titulo    string
	Contenido string
	Categoria string
	ImageIDs  []string
}

// CommentInput carries a new comment. ParentID set makes it a reply.
type CommentInput struct {
	PostID    uuid.UUID
	ParentID  *uuid.UUID
	Contenido string
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService wires the community board dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "posts repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*PostPage, error) {
	var categoria *enums.PostCategory
	if v := strings.TrimSpace(input.Categoria); v != "" {
		parsed, err := enums.ParsePostCategory(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "categoria inválida")
		}
		categoria = &parsed
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cursor inválido")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, categoria, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}

	page := &PostPage{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[limit-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &next
	}

	page.Items = make([]PostDTO, 0, len(rows))
	for i := range rows {
		likes, err := s.repo.CountLikes(ctx, rows[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count likes")
		}
		page.Items = append(page.Items, *toPostDTO(&rows[i], likes))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PostDTO, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post no encontrado")
	}
	likes, err := s.repo.CountLikes(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count likes")
	}
	return toPostDTO(post, likes), nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*PostDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	titulo := strings.TrimSpace(input.Titulo)
	if titulo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "titulo requerido")
	}
	contenido := strings.TrimSpace(input.Contenido)
	if contenido == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contenido requerido")
	}
	if len([]rune(contenido)) > maxContenidoLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contenido demasiado largo")
	}

	categoria := enums.PostCategoryGeneral
	if v := strings.TrimSpace(input.Categoria); v != "" {
		var err error
		categoria, err = enums.ParsePostCategory(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "categoria inválida")
		}
	}

	post := &models.Post{
		Titulo:    titulo,
		Contenido: contenido,
		Categoria: categoria,
		ImageIDs:  emptyIfNil(input.ImageIDs),
		AutorID:   actor.ID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist post")
	}
	return toPostDTO(post, 0), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		post, err := repo.GetByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
		}
		if post == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post no encontrado")
		}
		if !actor.isAdmin() && post.AutorID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "solo el autor puede eliminar el post")
		}

		if err := repo.DeletePostDependents(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade post dependents")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
		}
		return nil
	})
}

func (s *service) ToggleLike(ctx context.Context, actor Actor, postID uuid.UUID) (bool, int64, error) {
	if actor.ID == uuid.Nil {
		return false, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	var liked bool
	var likes int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		post, err := repo.GetByID(ctx, postID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
		}
		if post == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "post no encontrado")
		}

		exists, err := repo.LikeExists(ctx, postID, actor.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check like")
		}
		if exists {
			if err := repo.DeleteLike(ctx, postID, actor.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove like")
			}
			liked = false
		} else {
			if err := repo.CreateLike(ctx, &models.PostLike{PostID: postID, UsuarioID: actor.ID}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist like")
			}
			liked = true
		}

		likes, err = repo.CountLikes(ctx, postID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count likes")
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

func (s *service) Comment(ctx context.Context, actor Actor, input CommentInput) (*CommentDTO, error) {
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	contenido := strings.TrimSpace(input.Contenido)
	if contenido == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contenido requerido")
	}

	post, err := s.repo.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post no encontrado")
	}

	if input.ParentID != nil {
		parent, err := s.repo.GetComment(ctx, *input.ParentID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent comment")
		}
		if parent == nil || parent.PostID != input.PostID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comentario padre no encontrado")
		}
		// replies stay one level deep
		if parent.ParentID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "no se puede responder a una respuesta")
		}
	}

	comment := &models.Comentario{
		PostID:    input.PostID,
		AutorID:   actor.ID,
		ParentID:  input.ParentID,
		Contenido: contenido,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist comment")
	}
	dto := toCommentDTO(comment)
	return &dto, nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post no encontrado")
	}

	rows, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return nestComments(rows), nil
}

func (s *service) DeleteComment(ctx context.Context, actor Actor, commentID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		comment, err := repo.GetComment(ctx, commentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
		}
		if comment == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comentario no encontrado")
		}
		if !actor.isAdmin() && comment.AutorID != actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "solo el autor puede eliminar el comentario")
		}

		if comment.ParentID == nil {
			if err := repo.DeleteCommentReplies(ctx, commentID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade replies")
			}
		}
		if err := repo.DeleteComment(ctx, commentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
		}
		return nil
	})
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
