package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/katzeapp/katze-backend/pkg/db/types"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Post is a community board entry.
type Post struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Titulo    string              `gorm:"type:text;not null"`
	Contenido string              `gorm:"type:text;not null"`
	Categoria enums.PostCategory  `gorm:"type:text;not null;default:'General'"`
	ImageIDs  dbtypes.StringArray `gorm:"column:image_ids;type:jsonb;not null;default:'[]'"`
	AutorID   uuid.UUID           `gorm:"column:autor_id;type:uuid;not null;index"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Post) TableName() string { return "posts" }

// PostLike marks one user liking one post.
type PostLike struct {
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;primaryKey"`
	UsuarioID uuid.UUID `gorm:"column:usuario_id;type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PostLike) TableName() string { return "post_likes" }

// Comentario is a comment on a post. ParentID non-nil marks a reply.
type Comentario struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PostID    uuid.UUID  `gorm:"column:post_id;type:uuid;not null;index"`
	AutorID   uuid.UUID  `gorm:"column:autor_id;type:uuid;not null"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;index"`
	Contenido string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Comentario) TableName() string { return "comentarios" }
