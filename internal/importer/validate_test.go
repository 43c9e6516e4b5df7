package importer

import "testing"

func validateTestDef() EntityDefinition {
	return EntityDefinition{
		Kind:  KindDeal,
		Title: "Deals",
		Columns: []TemplateColumn{
			{Key: "company_name", Label: "Company Name", Required: true},
			{Key: "contact_email", Label: "Contact Email"},
			{Key: "notes", Label: "Notes"},
		},
	}
}

func TestValidateRow_BlankRowSkipped(t *testing.T) {
	def := validateTestDef()
	mapped := MappedRow{"company_name": "", "contact_email": " ", "notes": ""}

	errs, skip := ValidateRow(def, mapped, nil, 2)
	if !skip {
		t.Error("fully blank row should be skipped")
	}
	if len(errs) != 0 {
		t.Errorf("skipped row should carry no errors, got %v", errs)
	}
}

func TestValidateRow_BlankKeyWithDataIsError(t *testing.T) {
	def := validateTestDef()
	mapped := MappedRow{"company_name": "", "contact_email": "jane@acme.com", "notes": ""}

	errs, skip := ValidateRow(def, mapped, nil, 5)
	if skip {
		t.Fatal("row with populated fields must not be skipped")
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if errs[0].Message != "Company Name is required" {
		t.Errorf("Message = %q, want %q", errs[0].Message, "Company Name is required")
	}
	if errs[0].Line != 5 {
		t.Errorf("Line = %d, want 5", errs[0].Line)
	}
	if got := errs[0].Error(); got != "Row 5: Company Name is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidateRow_FieldErrorsFoldedIn(t *testing.T) {
	def := validateTestDef()
	mapped := MappedRow{"company_name": "Acme", "contact_email": "bad-email", "notes": ""}
	fieldErrs := []FieldError{{Field: "Contact Email", Message: "Invalid email format for Contact Email"}}

	errs, skip := ValidateRow(def, mapped, fieldErrs, 3)
	if skip {
		t.Fatal("row should not be skipped")
	}
	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if errs[0].Error() != "Row 3: Invalid email format for Contact Email" {
		t.Errorf("Error() = %q", errs[0].Error())
	}
}

func TestValidateRow_ValidRow(t *testing.T) {
	def := validateTestDef()
	mapped := MappedRow{"company_name": "Acme", "contact_email": "", "notes": "fine"}

	errs, skip := ValidateRow(def, mapped, nil, 2)
	if skip || len(errs) != 0 {
		t.Errorf("ValidateRow = (%v, %v), want no errors, no skip", errs, skip)
	}
}

func TestKeyColumn(t *testing.T) {
	def := validateTestDef()
	if got := def.KeyColumn(); got != "company_name" {
		t.Errorf("KeyColumn() = %q, want %q", got, "company_name")
	}

	noRequired := EntityDefinition{Columns: []TemplateColumn{{Key: "a", Label: "A"}}}
	if got := noRequired.KeyColumn(); got != "" {
		t.Errorf("KeyColumn() = %q, want empty", got)
	}
}
