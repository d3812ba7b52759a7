package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/katzeapp/katze-backend/pkg/config"
	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
)

// allowed image content types mapped to the extension used for object keys
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// signer is the slice of the GCS client the media service needs.
type signer interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service hands out presigned URLs for image uploads and downloads.
type Service interface {
	PresignUpload(ctx context.Context, input UploadInput) (*UploadDTO, error)
	PresignDownload(ctx context.Context, objectKey string) (*DownloadDTO, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// UploadInput describes the file the client wants to upload.
type UploadInput struct {
	ContentType string
	SizeBytes   int64
	Carpeta     string
}

// UploadDTO carries the presigned PUT URL and the object key the client must
// reference afterwards.
type UploadDTO struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DownloadDTO carries a presigned GET URL.
type DownloadDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type service struct {
	gcs      signer
	bucket   string
	gcsCfg   config.GCSConfig
	mediaCfg config.MediaConfig
	logg     *logger.Logger
}

// NewService wires the media dependencies.
func NewService(gcs signer, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if gcs == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "storage client required")
	}
	if gcsCfg.BucketName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bucket name required")
	}
	return &service{
		gcs:      gcs,
		bucket:   gcsCfg.BucketName,
		gcsCfg:   gcsCfg,
		mediaCfg: mediaCfg,
		logg:     logg,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, input UploadInput) (*UploadDTO, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "solo se aceptan imágenes jpeg, png, webp o gif")
	}

	maxBytes := int64(s.mediaCfg.MaxUploadMB) * 1024 * 1024
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tamaño de archivo requerido")
	}
	if input.SizeBytes > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("el archivo supera el máximo de %dMB", s.mediaCfg.MaxUploadMB))
	}

	carpeta := sanitizeCarpeta(input.Carpeta)
	objectKey := path.Join(carpeta, uuid.NewString()+ext)

	url, err := s.gcs.SignedURL(s.bucket, objectKey, contentType, s.gcsCfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &UploadDTO{
		URL:       url,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(s.gcsCfg.UploadURLExpiry),
	}, nil
}

func (s *service) PresignDownload(ctx context.Context, objectKey string) (*DownloadDTO, error) {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" || strings.Contains(objectKey, "..") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "objectKey inválido")
	}

	url, err := s.gcs.SignedReadURL(s.bucket, objectKey, s.gcsCfg.DownloadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return &DownloadDTO{
		URL:       url,
		ExpiresAt: time.Now().Add(s.gcsCfg.DownloadURLExpiry),
	}, nil
}

func (s *service) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" || strings.Contains(objectKey, "..") {
		return pkgerrors.New(pkgerrors.CodeValidation, "objectKey inválido")
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

// sanitizeCarpeta restricts upload folders to a known whitelist so clients
// cannot write arbitrary prefixes.
func sanitizeCarpeta(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "perfiles":
		return "perfiles"
	case "posts":
		return "posts"
	default:
		return "mascotas"
	}
}
