package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/oluseyi-dev/docdex/internal/models"
	"github.com/oluseyi-dev/docdex/internal/services"
)

// IndexHandler exposes the ingestion triggers and run/collection inspection.
type IndexHandler struct {
	ingest *services.IngestService
}

func NewIndexHandler(ingest *services.IngestService) *IndexHandler {
	return &IndexHandler{ingest: ingest}
}

// Load enqueues an incremental ingest run.
func (h *IndexHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.ingest.Enqueue(models.RunModeLoad); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "load enqueued"})
}

// Reload enqueues a full rebuild: the collection is deleted, recreated and
// every file ingested from scratch.
func (h *IndexHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ingest.Enqueue(models.RunModeReload); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload enqueued"})
}

// LastRun returns the summary of the most recent completed run.
func (h *IndexHandler) LastRun(w http.ResponseWriter, r *http.Request) {
	summary := h.ingest.LastRun()
	if summary == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"running":  h.ingest.Running(),
			"last_run": nil,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":  h.ingest.Running(),
		"last_run": summary,
	})
}

// Collections lists the stored collections with their counts.
func (h *IndexHandler) Collections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.ingest.Collections(r.Context())
	if err != nil {
		http.Error(w, "failed to list collections", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"collections": cols})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
