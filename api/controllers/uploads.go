package controllers

import (
	"net/http"

	"github.com/katzeapp/katze-backend/api/responses"
	"github.com/katzeapp/katze-backend/api/validators"
	"github.com/katzeapp/katze-backend/internal/media"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// UploadsController hands out presigned storage URLs.
type UploadsController struct {
	svc  media.Service
	logg *logger.Logger
}

func NewUploadsController(svc media.Service, logg *logger.Logger) *UploadsController {
	return &UploadsController{svc: svc, logg: logg}
}

type presignUploadRequest struct {
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
	Carpeta     string `json:"carpeta" validate:"omitempty,max=40"`
}

func (c *UploadsController) PresignUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := requireActor(r); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body presignUploadRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.PresignUpload(ctx, media.UploadInput{
		ContentType: body.ContentType,
		SizeBytes:   body.SizeBytes,
		Carpeta:     body.Carpeta,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *UploadsController) PresignDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := requireActor(r); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	dto, err := c.svc.PresignDownload(ctx, r.URL.Query().Get("objectKey"))
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

type deleteObjectRequest struct {
	ObjectKey string `json:"objectKey" validate:"required,max=500"`
}

func (c *UploadsController) DeleteObject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := requireActor(r); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	var body deleteObjectRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.DeleteObject(ctx, body.ObjectKey); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}
