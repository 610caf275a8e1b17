package router

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/OpenNSW/tariff/internal/storage"
	"github.com/OpenNSW/tariff/internal/storage/drivers"
	"github.com/OpenNSW/tariff/internal/tariff/service"
)

// FileRouter serves journal documents written by the local storage driver.
type FileRouter struct {
	exports *storage.ExportService
}

func NewFileRouter(exports *storage.ExportService) *FileRouter {
	return &FileRouter{exports: exports}
}

// HandleGetFile handles GET /files/{key...}
// Only exported journal documents are served.
func (fr *FileRouter) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		http.Error(w, "missing file key", http.StatusBadRequest)
		return
	}
	if !isJournalKey(key) {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	body, contentType, err := fr.exports.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, drivers.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		slog.WarnContext(r.Context(), "failed to open file", "key", key, "error", err)
		http.Error(w, "failed to open file", http.StatusBadRequest)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.WarnContext(r.Context(), "failed to stream file", "key", key, "error", err)
	}
}

func isJournalKey(key string) bool {
	clean := path.Clean(key)
	return clean == key &&
		strings.HasPrefix(clean, service.JournalPrefix+"/") &&
		path.Ext(clean) == ".json"
}
