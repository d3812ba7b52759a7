package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/auth"
	"github.com/katzeapp/katze-backend/pkg/config"
	"github.com/katzeapp/katze-backend/pkg/enums"
)

type stubAccountChecker struct {
	active bool
	err    error
	calls  int
}

func (s *stubAccountChecker) AccountActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.calls++
	return s.active, s.err
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleAdoptante,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthenticateChecksAccountLiveness(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "katze", ExpirationMinutes: 60}
	userID := uuid.New()
	token := mintTestToken(t, cfg, userID)

	checker := &stubAccountChecker{active: true}
	var captured ActorInfo
	handler := Authenticate(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = ActorFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/solicitudes/mias", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through for a live account, got %d", rec.Code)
	}
	if checker.calls != 1 {
		t.Fatalf("expected one liveness check, got %d", checker.calls)
	}
	if captured.UserID != userID {
		t.Fatalf("actor not attached to the request context")
	}
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "katze", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, uuid.New())

	// the token is still valid; the account behind it is gone
	handler := Authenticate(cfg, &stubAccountChecker{active: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a deleted account")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/solicitudes/mias", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a deleted account, got %d", rec.Code)
	}
}

func TestAuthenticateWithoutCheckerSkipsLookup(t *testing.T) {
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "katze", ExpirationMinutes: 60}
	token := mintTestToken(t, cfg, uuid.New())

	handler := Authenticate(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/mascotas/mias", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through without a checker, got %d", rec.Code)
	}
}
