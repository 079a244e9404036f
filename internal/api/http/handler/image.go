package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/landregistry-server/internal/api/http/response"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/model"
)

// Image streams stored images back to clients.
type Image struct {
	blobs  model.BlobStore
	logger *logger.Logger
}

// NewImage creates a new Image handler.
func NewImage(blobs model.BlobStore, logger *logger.Logger) *Image {
	return &Image{blobs: blobs, logger: logger}
}

// Get handles GET /images/*.
func (h *Image) Get(w http.ResponseWriter, r *http.Request) {
	key := path.Clean(chi.URLParam(r, "*"))
	if key == "." || strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		response.Error(w, model.ErrNotFound)
		return
	}

	rc, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.Error(w, model.ErrNotFound)
			return
		}
		h.logger.Error("Image handler: failed to read image",
			"key", key,
			"error", err.Error())
		response.Error(w, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Image handler: failed to stream image",
			"key", key,
			"error", err.Error())
	}
}
