package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

// handleHealth is the liveness probe. It also reports import concurrency so
// operators can see saturation at a glance.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"imports": s.service.LimiterStatus(),
	})
}

// entityResponse describes one importable entity kind for the catalog.
type entityResponse struct {
	Kind    string           `json:"kind"`
	Title   string           `json:"title"`
	Columns []columnResponse `json:"columns"`
}

type columnResponse struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// handleListEntities returns the catalog of importable entity kinds with
// their template columns.
func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	defs := importer.All()

	entities := make([]entityResponse, 0, len(defs))
	for _, def := range defs {
		cols := make([]columnResponse, len(def.Columns))
		for i, c := range def.Columns {
			cols[i] = columnResponse{Key: c.Key, Label: c.Label, Required: c.Required}
		}
		entities = append(entities, entityResponse{
			Kind:    def.Kind.String(),
			Title:   def.Title,
			Columns: cols,
		})
	}

	writeJSON(w, map[string]any{"entities": entities})
}

// handleDownloadTemplate serves the header-only CSV template for a kind.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	def, _ := importer.Get(kind)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, importer.TemplateFileName(def)))
	io.WriteString(w, importer.TemplateCSV(def))
}

// handleExportCSV streams all persisted rows of a kind as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	header, rows, err := s.service.ExportRows(r.Context(), kind, s.cfg.Import.ExportLimit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("%s_%s.csv", kind, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, row := range rows {
		cw.Write(row)
	}
	cw.Flush()
}

// handleExportXLSX serves all persisted rows of a kind as an Excel workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err, http.StatusNotFound)
		return
	}

	header, rows, err := s.service.ExportRows(r.Context(), kind, s.cfg.Import.ExportLimit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for ri, row := range rows {
		for ci, v := range row {
			cell, _ := excelize.CoordinatesToCellName(ci+1, ri+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fileName := fmt.Sprintf("%s_%s.xlsx", kind, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := f.Write(w); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
	}
}

// handleGetDraft returns a saved form draft, or 404 when none exists.
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, found, err := s.service.Drafts().Load(r.Context(), key)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if !found {
		respondError(w, r, fmt.Errorf("draft not found: %s", key), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"key": key, "value": value})
}

// handleSaveDraft stores or replaces a form draft.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var body struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, r, fmt.Errorf("invalid draft body: %w", err), http.StatusBadRequest)
		return
	}

	if err := s.service.Drafts().Save(r.Context(), key, body.Value); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "saved"})
}

// handleDeleteDraft removes a form draft. Deleting a missing draft is a
// no-op, matching DraftStore semantics.
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := s.service.Drafts().Clear(r.Context(), key); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "deleted"})
}
