package importer

import (
	"strconv"
	"strings"
	"time"
)

// preview.go performs read-only analysis of a CSV file before import.
// The preview consumes the same pipeline as the importer but stops short of
// touching the database, so the user can resolve validation errors or cancel
// before any row is persisted.

// PreviewSummary contains the counts shown at the top of the preview dialog.
type PreviewSummary struct {
	TotalRows    int `json:"totalRows"`
	ValidRows    int `json:"validRows"`
	ErrorRows    int `json:"errorRows"`
	SkippedBlank int `json:"skippedBlank"`
}

// RowPreview is a sample of one importable row for display.
type RowPreview struct {
	Line   int               `json:"line"`
	Values map[string]string `json:"values"`
}

// PreviewReport is the complete response from preview analysis.
type PreviewReport struct {
	Summary          PreviewSummary    `json:"summary"`
	Errors           []ValidationError `json:"errors,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
	Samples          []RowPreview      `json:"samples,omitempty"`
	QualityScore     *int              `json:"qualityScore,omitempty"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
}

const maxPreviewSamples = 10

// Preview tokenizes, maps, normalizes and validates file data and reports
// what an import would do, without persisting anything.
func Preview(def EntityDefinition, data []byte) *PreviewReport {
	start := time.Now()

	tok := Tokenize(string(SanitizeUTF8(data)))
	batch := PrepareBatch(def, tok)

	report := &PreviewReport{
		Summary: PreviewSummary{
			TotalRows:    len(tok.Rows),
			ValidRows:    len(batch.Rows),
			SkippedBlank: batch.SkippedBlank,
		},
		Errors:       batch.ValidationErrors,
		QualityScore: QualityScore(def, batch.Rows),
	}

	report.Summary.ErrorRows = countErrorRows(batch.ValidationErrors)
	report.Warnings = duplicateKeyWarnings(def, batch.Rows)

	for i := 0; i < len(batch.Rows) && i < maxPreviewSamples; i++ {
		report.Samples = append(report.Samples, RowPreview{
			Line:   batch.Rows[i].Line,
			Values: displayValues(def, batch.Rows[i].Normalized),
		})
	}

	report.ProcessingTimeMs = time.Since(start).Milliseconds()
	return report
}

// countErrorRows counts distinct lines among validation errors.
func countErrorRows(errs []ValidationError) int {
	lines := make(map[int]bool, len(errs))
	for _, e := range errs {
		lines[e.Line] = true
	}
	return len(lines)
}

// duplicateKeyWarnings flags key-column values that appear more than once in
// the file. Duplicates are a warning, not an error: the store accepts them
// and the user may genuinely want two deals with the same company.
func duplicateKeyWarnings(def EntityDefinition, rows []PreparedRow) []string {
	keyCol := def.KeyColumn()
	seen := make(map[string][]int)

	for _, row := range rows {
		if v, ok := row.Normalized[keyCol].(string); ok && v != "" {
			key := strings.ToLower(v)
			seen[key] = append(seen[key], row.Line)
		}
	}

	var warnings []string
	for _, lines := range seen {
		if len(lines) > 1 {
			if v, ok := rowValueAt(rows, lines[0], keyCol); ok {
				warnings = append(warnings, duplicateWarning(v, lines))
			}
		}
	}
	return warnings
}

func rowValueAt(rows []PreparedRow, line int, key string) (string, bool) {
	for _, row := range rows {
		if row.Line == line {
			v, ok := row.Normalized[key].(string)
			return v, ok
		}
	}
	return "", false
}

func duplicateWarning(value string, lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strconv.Itoa(l)
	}
	return value + " appears on rows " + strings.Join(parts, ", ")
}

// displayValues renders a normalized row as display strings for preview.
func displayValues(def EntityDefinition, row NormalizedRow) map[string]string {
	out := make(map[string]string, len(def.Columns))
	for _, col := range def.Columns {
		switch v := row[col.Key].(type) {
		case nil:
			out[col.Key] = ""
		case string:
			out[col.Key] = v
		case int64:
			out[col.Key] = FormatCurrency(v)
		case int:
			out[col.Key] = strconv.Itoa(v)
		default:
			out[col.Key] = ""
		}
	}
	return out
}
