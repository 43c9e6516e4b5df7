package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dealflowhq/dealflow/internal/importer"
	mw "github.com/dealflowhq/dealflow/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// handleImport accepts a CSV file and starts an asynchronous import.
// The response carries the import ID; progress streams over SSE.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	data, fileName, err := s.readUploadedFile(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	actor := mw.ActorFromContext(r.Context())
	importID, err := s.service.StartImport(r.Context(), kind, fileName, data, actor)
	if err != nil {
		status := http.StatusBadRequest
		if err == importer.ErrTooManyImports {
			status = http.StatusTooManyRequests
		}
		respondError(w, r, err, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"import_id": importID})
}

// handlePreview analyzes a CSV file and reports what an import would do,
// without writing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	data, fileName, err := s.readUploadedFile(w, r)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	report, err := s.service.PreviewFile(kind, fileName, data)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, report)
}

// readUploadedFile extracts the "file" part from a multipart form, bounded
// by the configured maximum file size.
func (s *Server) readUploadedFile(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, "", fmt.Errorf("file too large or invalid form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	return data, header.Filename, nil
}

// handleImportProgress streams import progress via Server-Sent Events.
// Supports resumption via lastEventId query parameter for reconnection.
func (s *Server) handleImportProgress(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	// The event ID is the progress percentage, allowing clients to skip
	// already-received events after reconnection.
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, dispose, err := s.service.SubscribeProgress(importID)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}
	defer dispose()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed, import finished or was cancelled
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// importResultResponse shapes an ImportResult for the API.
type importResultResponse struct {
	ImportID   string                 `json:"importId"`
	Kind       string                 `json:"kind"`
	FileName   string                 `json:"fileName"`
	Summary    importer.ImportSummary `json:"summary"`
	TotalRows  int                    `json:"totalRows"`
	Skipped    int                    `json:"skipped"`
	DurationMs int64                  `json:"durationMs"`
}

// handleImportResult returns the terminal result of an import, blocking
// until the import finishes.
func (s *Server) handleImportResult(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	result, err := s.service.Result(importID)
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, importResultResponse{
		ImportID:   result.ImportID,
		Kind:       result.Kind.String(),
		FileName:   result.FileName,
		Summary:    result.Summary,
		TotalRows:  result.Total,
		Skipped:    result.Skipped,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// handleCancelImport cancels an in-progress import. Rows inserted before
// the cancellation point stay inserted.
func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")

	if err := s.service.CancelImport(importID); err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "cancelled"})
}

// handleImportHistory returns recent import attempts for an entity kind.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	entries, err := s.service.History(r.Context(), kind, s.cfg.Import.HistoryLimit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"history": entries})
}
