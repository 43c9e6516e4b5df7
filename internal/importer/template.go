package importer

import "strings"

// TemplateCSV builds the downloadable import template for an entity: a
// single header row joining each column's label with commas. Re-tokenizing
// this output yields zero data rows.
func TemplateCSV(def EntityDefinition) string {
	labels := make([]string, len(def.Columns))
	for i, col := range def.Columns {
		labels[i] = col.Label
	}
	return strings.Join(labels, ",") + "\n"
}

// TemplateFileName returns the download name for an entity's template,
// derived from its title in kebab case ("Portfolio Companies" ->
// "portfolio-companies-template.csv").
func TemplateFileName(def EntityDefinition) string {
	kebab := strings.ToLower(strings.TrimSpace(def.Title))
	kebab = strings.Join(strings.Fields(kebab), "-")
	return kebab + "-template.csv"
}
