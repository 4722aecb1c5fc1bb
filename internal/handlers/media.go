package handlers

import (
	"errors"
	"net/http"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/media"
)

type MediaHandler struct {
	uploader *media.Uploader
	log      logging.Logger
}

func NewMediaHandler(uploader *media.Uploader, log logging.Logger) *MediaHandler {
	return &MediaHandler{uploader: uploader, log: log}
}

// Upload accepts one multipart image under the "file" field and returns the
// public URL to store on the post.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// The uploader enforces the real limit; the extra headroom covers the
	// multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxFileSize*2)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file)
	var vErr *media.ValidationError
	if errors.As(err, &vErr) {
		respondError(w, http.StatusBadRequest, vErr.Reason)
		return
	}
	if err != nil {
		h.log.Error(r.Context(), "image upload failed", "error", err)
		respondError(w, http.StatusBadGateway, "failed to upload image")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
