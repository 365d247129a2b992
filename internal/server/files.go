package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/loansiya/internal/storage"
)

// SignedObjectOpener resolves references issued by a local bucket's SignedURL.
type SignedObjectOpener interface {
	OpenSigned(ctx context.Context, bucket, key, expires, signature string) (storage.Object, error)
}

// FileHandler serves objects addressed by locally signed URLs. Only the
// SQLite backend issues such URLs; Cloud Storage links point at Google.
type FileHandler struct {
	opener SignedObjectOpener
	logger *slog.Logger
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(logger *slog.Logger, opener SignedObjectOpener) *FileHandler {
	return &FileHandler{opener: opener, logger: logger}
}

func (h *FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket := chi.URLParam(r, "bucket")
	key := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}

	q := r.URL.Query()
	obj, err := h.opener.OpenSigned(r.Context(), bucket, key, q.Get("expires"), q.Get("signature"))
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("failed to serve signed object", "bucket", bucket, "key", key, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	if obj.CacheControl != "" {
		w.Header().Set("Cache-Control", obj.CacheControl)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}
