package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rtapi/gateway/pkg/httpx"
	"github.com/rtapi/gateway/pkg/storage"
)

// Storage serves the presigned upload endpoint. It is mounted behind both
// the tenant gate and the principal requirement, so a request reaching it
// always carries a resolved tenant and an authenticated user.
type Storage struct {
	presigner storage.Presigner
	ttl       time.Duration
	log       *slog.Logger
}

// NewStorage creates the storage handler. The TTL bounds how long issued
// upload URLs stay valid.
func NewStorage(presigner storage.Presigner, ttl time.Duration, log *slog.Logger) *Storage {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Storage{presigner: presigner, ttl: ttl, log: log}
}

// Presign handles POST /api/storage/presign.
func (h *Storage) Presign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_request", "Request body must be JSON.")
		return
	}
	if body.Filename == "" {
		httpx.Error(w, http.StatusBadRequest, "missing_filename", "filename is required.")
		return
	}
	if body.ContentType == "" {
		body.ContentType = "application/octet-stream"
	}

	key := storage.UploadKey(body.Filename)
	upload, err := h.presigner.PresignUpload(r.Context(), key, body.ContentType, h.ttl)
	if err != nil {
		h.log.ErrorContext(r.Context(), "presign failed", slog.Any("error", err))
		httpx.Error(w, http.StatusServiceUnavailable, "upstream_unavailable", "Service temporarily unavailable.")
		return
	}
	httpx.JSON(w, http.StatusOK, upload)
}
