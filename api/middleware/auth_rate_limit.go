package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/katzeapp/katze-backend/api/responses"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

const maxPeekBytes = 1 << 16

// Limiter is the slice of the redis client the auth limiter needs.
type Limiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitConfig bounds one auth endpoint per email and per client IP.
type AuthRateLimitConfig struct {
	Scope      string
	Window     time.Duration
	EmailLimit int
	IPLimit    int
}

// AuthRateLimit throttles credential endpoints. The request body is peeked for
// the correo field so per-account limits survive IP rotation; a redis outage
// fails open.
func AuthRateLimit(limiter Limiter, cfg AuthRateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			allowed, _, err := limiter.FixedWindowAllow(ctx, cfg.Scope+":ip:"+ip, int64(cfg.IPLimit), cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(ctx, "rate limiter unavailable, failing open")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "demasiados intentos, espera un momento"))
				return
			}

			if correo := peekCorreo(r); correo != "" {
				allowed, _, err := limiter.FixedWindowAllow(ctx, cfg.Scope+":correo:"+correo, int64(cfg.EmailLimit), cfg.Window)
				if err == nil && !allowed {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "demasiados intentos para esta cuenta"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// peekCorreo reads the correo field out of the JSON body and restores the
// body for downstream handlers.
func peekCorreo(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var probe struct {
		Correo string `json:"correo"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Correo))
}
