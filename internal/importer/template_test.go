package importer

import (
	"reflect"
	"testing"
)

func TestTemplateCSV(t *testing.T) {
	def := pipelineTestDef(nil)

	got := TemplateCSV(def)
	want := "Company Name,Contact Email,Deal Size\n"
	if got != want {
		t.Errorf("TemplateCSV = %q, want %q", got, want)
	}
}

func TestTemplateCSV_RoundTripsThroughTokenizer(t *testing.T) {
	def := pipelineTestDef(nil)

	tok := Tokenize(TemplateCSV(def))
	wantHeaders := []string{"Company Name", "Contact Email", "Deal Size"}
	if !reflect.DeepEqual(tok.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", tok.Headers, wantHeaders)
	}
	if len(tok.Rows) != 0 {
		t.Errorf("template should tokenize to zero data rows, got %d", len(tok.Rows))
	}
}

func TestTemplateFileName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Deals", "deals-template.csv"},
		{"Portfolio Companies", "portfolio-companies-template.csv"},
		{"  Investors  ", "investors-template.csv"},
	}

	for _, tt := range tests {
		def := EntityDefinition{Title: tt.title}
		if got := TemplateFileName(def); got != tt.want {
			t.Errorf("TemplateFileName(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
