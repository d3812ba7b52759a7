package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/api/middleware"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return id, nil
}

func requireActor(r *http.Request) (middleware.ActorInfo, error) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		return middleware.ActorInfo{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return actor, nil
}
