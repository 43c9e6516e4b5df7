package importer

import "strings"

// mapper.go matches source column headers to the fixed target schema.
//
// Matching is case-insensitive against either the column's display label or
// its canonical key, so "Company Name", "company name" and "company_name" all
// land on the same field. First match wins; an unmatched column maps to the
// empty string.
//
// The mapping is re-run for every data row rather than once against the
// header. The header set is constant across rows, so this is redundant work
// but not a correctness issue, and it keeps MapRow a pure function of one
// row.

// MapRow produces a MappedRow for one data row given the file's headers and
// the entity's template columns.
func MapRow(headers []string, row []string, cols []TemplateColumn) MappedRow {
	mapped := make(MappedRow, len(cols))

	for _, col := range cols {
		mapped[col.Key] = ""
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			if headerMatches(h, col) {
				mapped[col.Key] = strings.TrimSpace(row[i])
				break
			}
		}
	}

	return mapped
}

// headerMatches reports whether a source header names the given column,
// comparing case-insensitively against both label and key.
func headerMatches(header string, col TemplateColumn) bool {
	h := strings.TrimSpace(header)
	return strings.EqualFold(h, col.Label) || strings.EqualFold(h, col.Key)
}
