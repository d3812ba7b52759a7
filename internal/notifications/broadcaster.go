package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/enums"
)

// Broadcaster pushes notification events to realtime subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, event BroadcastEvent) error
}

// BroadcastEvent is the payload published on the realtime channel.
type BroadcastEvent struct {
	NotificacionID uuid.UUID              `json:"notificacionId"`
	UsuarioID      uuid.UUID              `json:"usuarioId"`
	Tipo           enums.NotificationType `json:"tipo"`
	Titulo         string                 `json:"titulo"`
	Mensaje        string                 `json:"mensaje"`
	Icono          *string                `json:"icono,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type redisBroadcaster struct {
	pub     publisher
	channel string
}

// NewRedisBroadcaster publishes events on a redis pub/sub channel.
func NewRedisBroadcaster(pub publisher, channel string) (Broadcaster, error) {
	if pub == nil {
		return nil, fmt.Errorf("redis publisher required")
	}
	if channel == "" {
		return nil, fmt.Errorf("broadcast channel required")
	}
	return &redisBroadcaster{pub: pub, channel: channel}, nil
}

func (b *redisBroadcaster) Broadcast(ctx context.Context, event BroadcastEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal broadcast event: %w", err)
	}
	return b.pub.Publish(ctx, b.channel, string(raw))
}
