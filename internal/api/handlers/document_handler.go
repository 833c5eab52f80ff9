package handlers

import (
	"io"
	"net/http"

	"github.com/oluseyi-dev/docdex/internal/services"
)

const maxUploadBytes = 32 << 20 // 32MB

// DocumentHandler accepts new corpus documents over multipart upload. Only
// mounted when the document source is S3-backed.
type DocumentHandler struct {
	docs *services.DocumentService
}

func NewDocumentHandler(docs *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// Upload stores one document into the corpus bucket. The file becomes part
// of the index on the next load run.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, url, err := h.docs.Upload(r.Context(), header.Filename, contentType, data)
	if err != nil {
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"key": key,
		"url": url,
	})
}
