package leads

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	httperrors "github.com/dropDatabas3/leadflow/internal/http/errors"
	"github.com/dropDatabas3/leadflow/internal/http/helpers"
	svc "github.com/dropDatabas3/leadflow/internal/http/services/leads"
	"github.com/dropDatabas3/leadflow/internal/ingest"
	"github.com/dropDatabas3/leadflow/internal/observability/logger"
)

const fileField = "file"

// multipartSlack es el margen del body para el sobre multipart (boundaries,
// headers de cada parte, campos chicos). El tope real se aplica al archivo.
const multipartSlack = 64 << 10

// UploadController maneja POST /api/upload.
type UploadController struct {
	service  svc.UploadService
	maxBytes int64
	allowed  map[string]struct{}
}

// NewUploadController crea el controller de upload.
func NewUploadController(service svc.UploadService, cfg Config) *UploadController {
	allowed := make(map[string]struct{}, len(cfg.AllowedContentTypes))
	for _, ct := range cfg.AllowedContentTypes {
		allowed[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	return &UploadController{service: service, maxBytes: cfg.MaxBytes, allowed: allowed}
}

// Upload recibe el archivo como multipart (campo "file") y lo pasa al service
// en streaming, sin bufferear el form completo.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UploadController.Upload"))

	if c.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, c.maxBytes+multipartSlack)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("expected multipart/form-data"))
		return
	}

	var part io.Reader
	var fileName, contentType string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			httperrors.WriteError(w, httperrors.ErrMissingFile)
			return
		}
		if err != nil {
			httperrors.WriteError(w, mapError(err))
			return
		}
		if p.FormName() == fileField && p.FileName() != "" {
			part, fileName, contentType = p, p.FileName(), p.Header.Get("Content-Type")
			break
		}
	}

	// Extensión primero: un .txt es UNSUPPORTED_FORMAT aunque su MIME tampoco sirva.
	if _, err := ingest.DetectFormat(fileName); err != nil {
		httperrors.WriteError(w, mapError(err))
		return
	}
	if !c.contentTypeAllowed(contentType) {
		httperrors.WriteError(w, httperrors.ErrUnsupportedMediaType.WithDetail(contentType))
		return
	}

	if c.maxBytes > 0 {
		part = &fileLimiter{r: io.LimitReader(part, c.maxBytes+1), max: c.maxBytes}
	}

	resp, err := c.service.Upload(ctx, svc.UploadInput{FileName: fileName, Body: part})
	if err != nil {
		appErr := mapError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("upload failed", logger.FileName(fileName), logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	helpers.NoStore(w)
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// fileLimiter corta el archivo en max bytes con el mismo error que
// http.MaxBytesReader, así mapError lo traduce a 413.
type fileLimiter struct {
	r   io.Reader
	max int64
	n   int64
}

func (l *fileLimiter) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n - int(l.n-l.max), &http.MaxBytesError{Limit: l.max}
	}
	return n, err
}

func (c *UploadController) contentTypeAllowed(ct string) bool {
	if len(c.allowed) == 0 {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	_, ok := c.allowed[mt]
	return ok
}

// mapError traduce errores de dominio al catálogo HTTP.
func mapError(err error) *httperrors.AppError {
	var (
		tooLarge     *http.MaxBytesError
		insufficient *svc.InsufficientAgentsError
		appErr       *httperrors.AppError
	)
	switch {
	case errors.As(err, &tooLarge):
		return httperrors.ErrBodyTooLarge.WithDetail(fmt.Sprintf("limit is %d bytes", tooLarge.Limit))
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return httperrors.ErrUnsupportedFormat.WithCause(err)
	case errors.Is(err, ingest.ErrRead):
		return httperrors.ErrFileRead.WithCause(err)
	case errors.Is(err, svc.ErrNoValidRows):
		return httperrors.ErrNoValidRows
	case errors.As(err, &insufficient):
		return httperrors.ErrInsufficientAgents.WithDetail(fmt.Sprintf(
			"You need exactly %d agents to distribute leads. Currently have %d agents.",
			insufficient.Need, insufficient.Have))
	case errors.Is(err, repository.ErrPersistence):
		return httperrors.ErrPersistence.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
