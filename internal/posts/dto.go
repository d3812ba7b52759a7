package posts

import (
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/db/models"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// PostDTO is the JSON shape of a community post.
type PostDTO struct {
	ID        uuid.UUID          `json:"id"`
	Titulo    string             `json:"titulo"`
	Contenido string             `json:"contenido"`
	Categoria enums.PostCategory `json:"categoria"`
	ImageIDs  []string           `json:"imageIds"`
	AutorID   uuid.UUID          `json:"autorId"`
	Likes     int64              `json:"likes"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// PostPage is one cursor page of posts.
type PostPage struct {
	Items      []PostDTO `json:"items"`
	NextCursor *string   `json:"nextCursor,omitempty"`
}

// CommentDTO is the JSON shape of a comment. Replies are nested one level
// under their parent.
type CommentDTO struct {
	ID         uuid.UUID    `json:"id"`
	PostID     uuid.UUID    `json:"postId"`
	AutorID    uuid.UUID    `json:"autorId"`
	ParentID   *uuid.UUID   `json:"parentId,omitempty"`
	Contenido  string       `json:"contenido"`
	Respuestas []CommentDTO `json:"respuestas,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func toPostDTO(row *models.Post, likes int64) *PostDTO {
	if row == nil {
		return nil
	}
	return &PostDTO{
		ID:        row.ID,
		Titulo:    row.Titulo,
		Contenido: row.Contenido,
		Categoria: row.Categoria,
		ImageIDs:  row.ImageIDs,
		AutorID:   row.AutorID,
		Likes:     likes,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toCommentDTO(row *models.Comentario) CommentDTO {
	return CommentDTO{
		ID:        row.ID,
		PostID:    row.PostID,
		AutorID:   row.AutorID,
		ParentID:  row.ParentID,
		Contenido: row.Contenido,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// nestComments groups replies under their top level parent, preserving the
// chronological order the repository returns.
func nestComments(rows []models.Comentario) []CommentDTO {
	top := make([]CommentDTO, 0)
	index := map[uuid.UUID]int{}
	for i := range rows {
		if rows[i].ParentID == nil {
			top = append(top, toCommentDTO(&rows[i]))
			index[rows[i].ID] = len(top) - 1
		}
	}
	for i := range rows {
		if rows[i].ParentID == nil {
			continue
		}
		if at, ok := index[*rows[i].ParentID]; ok {
			top[at].Respuestas = append(top[at].Respuestas, toCommentDTO(&rows[i]))
		}
	}
	return top
}
