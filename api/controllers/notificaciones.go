package controllers

import (
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/internal/notifications"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// NotificacionesController exposes the per-user notification feed.
type NotificacionesController struct {
	svc  notifications.Service
	logg *logger.Logger
}

func NewNotificacionesController(svc notifications.Service, logg *logger.Logger) *NotificacionesController {
	return &NotificacionesController{svc: svc, logg: logg}
}

func (c *NotificacionesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	rows, err := c.svc.List(ctx, actor.UserID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, notifications.ToDTOs(rows))
}

func (c *NotificacionesController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	count, err := c.svc.CountUnread(ctx, actor.UserID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]int64{"noLeidas": count})
}

func (c *NotificacionesController) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.MarkRead(ctx, actor.UserID, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "read"})
}

func (c *NotificacionesController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	count, err := c.svc.MarkAllRead(ctx, actor.UserID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]int64{"marcadas": count})
}

func (c *NotificacionesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.Delete(ctx, actor.UserID, id); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
