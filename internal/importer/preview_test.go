package importer

import (
	"strings"
	"testing"
)

func TestPreview_Summary(t *testing.T) {
	def := pipelineTestDef(nil)

	data := []byte(strings.Join([]string{
		"Company Name,Contact Email,Deal Size",
		"Acme Inc,jane@acme.com,1000",
		"Globex,,2500",
		"Initech,bad-email,50",
	}, "\n"))

	report := Preview(def, data)

	if report.Summary.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", report.Summary.TotalRows)
	}
	if report.Summary.ValidRows != 2 {
		t.Errorf("ValidRows = %d, want 2", report.Summary.ValidRows)
	}
	if report.Summary.ErrorRows != 1 {
		t.Errorf("ErrorRows = %d, want 1", report.Summary.ErrorRows)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(report.Errors))
	}
	if report.Errors[0].Error() != "Row 4: Invalid email format for Contact Email" {
		t.Errorf("error = %q", report.Errors[0].Error())
	}
	if report.QualityScore == nil {
		t.Error("QualityScore should be set for a non-empty batch")
	}
}

func TestPreview_DuplicateKeyWarnings(t *testing.T) {
	def := pipelineTestDef(nil)

	data := []byte(strings.Join([]string{
		"Company Name,Contact Email,Deal Size",
		"Acme Inc,,100",
		"Globex,,200",
		"acme inc,,300", // duplicate key, case-insensitive
	}, "\n"))

	report := Preview(def, data)

	if len(report.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1: %v", len(report.Warnings), report.Warnings)
	}
	if report.Warnings[0] != "Acme Inc appears on rows 2, 4" {
		t.Errorf("warning = %q", report.Warnings[0])
	}
}

func TestPreview_SampleLimitAndDisplayValues(t *testing.T) {
	def := pipelineTestDef(nil)

	var lines []string
	lines = append(lines, "Company Name,Contact Email,Deal Size")
	for i := 0; i < 15; i++ {
		lines = append(lines, "Acme,,19.99")
	}

	report := Preview(def, []byte(strings.Join(lines, "\n")))

	if len(report.Samples) != maxPreviewSamples {
		t.Fatalf("len(Samples) = %d, want %d", len(report.Samples), maxPreviewSamples)
	}

	values := report.Samples[0].Values
	if values["company_name"] != "Acme" {
		t.Errorf("company_name = %q", values["company_name"])
	}
	if values["deal_size"] != "19.99" {
		t.Errorf("deal_size = %q, want %q (cents rendered as currency)", values["deal_size"], "19.99")
	}
	if values["contact_email"] != "" {
		t.Errorf("contact_email = %q, want empty for nil", values["contact_email"])
	}
}

func TestPreview_EmptyFile(t *testing.T) {
	def := pipelineTestDef(nil)

	report := Preview(def, []byte(""))

	if report.Summary.TotalRows != 0 || report.Summary.ValidRows != 0 {
		t.Errorf("summary = %+v, want zeros", report.Summary)
	}
	if report.QualityScore != nil {
		t.Errorf("QualityScore = %v, want nil", *report.QualityScore)
	}
}
