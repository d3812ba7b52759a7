package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/posts"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/pagination"
)

// PostsController exposes the community board.
type PostsController struct {
	svc  posts.Service
	logg *logger.Logger
}

func NewPostsController(svc posts.Service, logg *logger.Logger) *PostsController {
	return &PostsController{svc: svc, logg: logg}
}

func (c *PostsController) actor(r *http.Request) (posts.Actor, error) {
	info, err := requireActor(r)
	if err != nil {
		return posts.Actor{}, err
	}
	return posts.Actor{ID: info.UserID, Role: info.Role}, nil
}

func (c *PostsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	input := posts.ListInput{
		Categoria:  query.Get("categoria"),
		Pagination: pagination.Params{Cursor: query.Get("cursor")},
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid limit"))
			return
		}
		input.Pagination.Limit = limit
	}

	page, err := c.svc.List(ctx, input)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, page)
}

func (c *PostsController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Get(ctx, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

type createPostRequest struct {
	Titulo    string   `json:"titulo" validate:"required,max=200"`
	Contenido string   `json:"contenido" validate:"required,max=5000"`
	Categoria string   `json:"categoria" validate:"omitempty"`
	ImageIDs  []string `json:"imageIds" validate:"omitempty,dive,max=500"`
}

func (c *PostsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body createPostRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Create(ctx, actor, posts.CreateInput{
		Titulo:    body.Titulo,
		Contenido: body.Contenido,
		Categoria: body.Categoria,
		ImageIDs:  body.ImageIDs,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *PostsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.Delete(ctx, actor, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}

func (c *PostsController) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	liked, likes, err := c.svc.ToggleLike(ctx, actor, id)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"liked": liked, "likes": likes})
}

type createCommentRequest struct {
	ParentID  *uuid.UUID `json:"parentId"`
	Contenido string     `json:"contenido" validate:"required,max=2000"`
}

func (c *PostsController) Comment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	postID, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body createCommentRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.Comment(ctx, actor, posts.CommentInput{
		PostID:    postID,
		ParentID:  body.ParentID,
		Contenido: body.Contenido,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func (c *PostsController) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	tree, err := c.svc.ListComments(ctx, postID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, tree)
}

func (c *PostsController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := c.actor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	commentID, err := uuidParam(r, "commentId")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.DeleteComment(ctx, actor, commentID); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
