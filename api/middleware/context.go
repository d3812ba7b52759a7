package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorInfo is the authenticated identity extracted from the access token.
type ActorInfo struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// WithActor attaches the authenticated actor to the context.
func WithActor(ctx context.Context, actor ActorInfo) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFrom extracts the authenticated actor, if any.
func ActorFrom(ctx context.Context) (ActorInfo, bool) {
	actor, ok := ctx.Value(actorContextKey).(ActorInfo)
	return actor, ok
}
