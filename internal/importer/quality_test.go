package importer

import "testing"

func TestQualityScore_EmptyBatch(t *testing.T) {
	def := pipelineTestDef(nil)
	if got := QualityScore(def, nil); got != nil {
		t.Errorf("QualityScore(empty) = %v, want nil", *got)
	}
}

func TestQualityScore_FullyPopulated(t *testing.T) {
	def := pipelineTestDef(nil)
	rows := []PreparedRow{
		{Line: 2, Normalized: NormalizedRow{"company_name": "Acme", "contact_email": "a@b.co", "deal_size": int64(100)}},
		{Line: 3, Normalized: NormalizedRow{"company_name": "Globex", "contact_email": "c@d.co", "deal_size": int64(200)}},
	}

	got := QualityScore(def, rows)
	if got == nil || *got != 100 {
		t.Fatalf("QualityScore = %v, want 100", got)
	}
}

func TestQualityScore_DegradedFieldsLowerScore(t *testing.T) {
	def := pipelineTestDef(nil)

	// One of three columns populated per row
	rows := []PreparedRow{
		{Line: 2, Normalized: NormalizedRow{"company_name": "Acme", "contact_email": nil, "deal_size": nil}},
		{Line: 3, Normalized: NormalizedRow{"company_name": "Globex", "contact_email": nil, "deal_size": nil}},
	}

	got := QualityScore(def, rows)
	if got == nil || *got != 33 {
		t.Fatalf("QualityScore = %v, want 33", got)
	}
}

func TestQualityScore_BlankStringsCountAsEmpty(t *testing.T) {
	def := pipelineTestDef(nil)
	rows := []PreparedRow{
		{Line: 2, Normalized: NormalizedRow{"company_name": "  ", "contact_email": nil, "deal_size": int64(100)}},
	}

	got := QualityScore(def, rows)
	if got == nil || *got != 33 {
		t.Fatalf("QualityScore = %v, want 33", got)
	}
}
