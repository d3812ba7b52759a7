package controllers

import (
	"context"
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    Pinger
	redis Pinger
	logg  *logger.Logger
}

func NewHealthController(db, redis Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, redis: redis, logg: logg}
}

func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{"db": "ok", "redis": "ok"}
	healthy := true

	if c.db != nil {
		if err := c.db.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			healthy = false
		}
	}
	if c.redis != nil {
		if err := c.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		responses.WriteError(ctx, c.logg, w,
			pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
		return
	}
	responses.WriteSuccess(w, checks)
}
