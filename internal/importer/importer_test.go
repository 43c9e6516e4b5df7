package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

var testActor = uuid.MustParse("7b1d7a36-5db8-4f1a-9c55-01f4a49bb2a1")

// pipelineTestDef builds a minimal three-column definition exercising the
// full pipeline: a required key, a validated email, and a currency field.
func pipelineTestDef(insert InsertFunc) EntityDefinition {
	if insert == nil {
		insert = func(ctx context.Context, db DBTX, params any) error { return nil }
	}
	return EntityDefinition{
		Kind:  KindDeal,
		Title: "Deals",
		Columns: []TemplateColumn{
			{Key: "company_name", Label: "Company Name", Required: true},
			{Key: "contact_email", Label: "Contact Email"},
			{Key: "deal_size", Label: "Deal Size"},
		},
		Normalize: func(m MappedRow) (NormalizedRow, []FieldError) {
			row := make(NormalizedRow, 3)
			var errs []FieldError

			row["company_name"] = m["company_name"]

			email := strings.TrimSpace(m["contact_email"])
			switch {
			case email == "":
				row["contact_email"] = nil
			case ValidEmail(email):
				row["contact_email"] = email
			default:
				errs = append(errs, FieldError{
					Field:   "Contact Email",
					Message: "Invalid email format for Contact Email",
				})
				row["contact_email"] = nil
			}

			if cents, ok := ParseCurrency(m["deal_size"]); ok {
				row["deal_size"] = cents
			} else {
				row["deal_size"] = nil
			}

			return row, errs
		},
		BuildParams: func(row NormalizedRow, actor uuid.UUID) (any, error) {
			return row, nil
		},
		Insert:       insert,
		ExportHeader: []string{"Company Name", "Contact Email", "Deal Size"},
	}
}

func TestPrepareBatch(t *testing.T) {
	def := pipelineTestDef(nil)

	// The Internal Id column matches no template column. The r3 row is blank
	// in every mapped column, which is the silent-skip case; a row blank in
	// every raw field would already be dropped by the tokenizer.
	csv := strings.Join([]string{
		"Company Name,Contact Email,Deal Size,Internal Id",
		"Acme Inc,jane@acme.com,1000,r1", // valid
		"Globex,,2500,r2",                // valid, optional fields blank
		",,,r3",                          // mapped columns all blank: silently skipped
		",orphan@data.com,100,r4",        // blank key with data: error
		"Initech,bad-email,50,r5",        // malformed email: error
	}, "\n")

	batch := PrepareBatch(def, Tokenize(csv))

	if len(batch.Rows) != 2 {
		t.Errorf("len(Rows) = %d, want 2", len(batch.Rows))
	}
	if batch.SkippedBlank != 1 {
		t.Errorf("SkippedBlank = %d, want 1", batch.SkippedBlank)
	}
	if len(batch.ValidationErrors) != 2 {
		t.Fatalf("len(ValidationErrors) = %d, want 2: %v", len(batch.ValidationErrors), batch.ValidationErrors)
	}

	// Line numbers are 1-based source lines; the skipped blank row still
	// advances the count
	if batch.ValidationErrors[0].Line != 5 {
		t.Errorf("first error line = %d, want 5", batch.ValidationErrors[0].Line)
	}
	if batch.ValidationErrors[1].Error() != "Row 6: Invalid email format for Contact Email" {
		t.Errorf("second error = %q", batch.ValidationErrors[1].Error())
	}

	// Normalized values carry through
	if got := batch.Rows[0].Normalized["contact_email"]; got != "jane@acme.com" {
		t.Errorf("email = %v", got)
	}
	if got := batch.Rows[1].Normalized["deal_size"]; got != int64(250000) {
		t.Errorf("deal_size = %v, want 250000", got)
	}
}

func TestRunBatch_HappyPath(t *testing.T) {
	inserted := 0
	def := pipelineTestDef(func(ctx context.Context, db DBTX, params any) error {
		inserted++
		return nil
	})

	batch := PrepareBatch(def, Tokenize("Company Name,Contact Email,Deal Size\nAcme Inc,,85\nGlobex,,90\n"))

	imported, rowErrs, err := RunBatch(context.Background(), nil, def, batch.Rows, testActor, nil)
	if err != nil {
		t.Fatalf("RunBatch error = %v", err)
	}
	if imported != 2 || inserted != 2 {
		t.Errorf("imported = %d (inserts %d), want 2", imported, inserted)
	}
	if len(rowErrs) != 0 {
		t.Errorf("rowErrs = %v, want none", rowErrs)
	}
	if got := PhaseFor(imported, len(rowErrs)); got != PhaseSucceeded {
		t.Errorf("PhaseFor = %v, want %v", got, PhaseSucceeded)
	}
}

func TestRunBatch_PartialFailure(t *testing.T) {
	var lines []string
	lines = append(lines, "Company Name,Contact Email,Deal Size")
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf("Company %d,,100", i))
	}
	def := pipelineTestDef(func(ctx context.Context, db DBTX, params any) error {
		row := params.(NormalizedRow)
		if row["company_name"] == "Company 5" {
			return errors.New("insert exploded")
		}
		return nil
	})

	batch := PrepareBatch(def, Tokenize(strings.Join(lines, "\n")))
	if len(batch.Rows) != 10 {
		t.Fatalf("len(Rows) = %d, want 10", len(batch.Rows))
	}

	imported, rowErrs, err := RunBatch(context.Background(), nil, def, batch.Rows, testActor, nil)
	if err != nil {
		t.Fatalf("RunBatch error = %v", err)
	}
	if imported != 9 {
		t.Errorf("imported = %d, want 9", imported)
	}
	if len(rowErrs) != 1 {
		t.Fatalf("len(rowErrs) = %d, want 1", len(rowErrs))
	}
	// Company 5 sits on source line 6
	if rowErrs[0] != "Row 6: insert exploded" {
		t.Errorf("rowErrs[0] = %q", rowErrs[0])
	}
	if got := PhaseFor(imported, len(rowErrs)); got != PhasePartiallySucceeded {
		t.Errorf("PhaseFor = %v, want %v", got, PhasePartiallySucceeded)
	}
}

func TestRunBatch_Preconditions(t *testing.T) {
	def := pipelineTestDef(nil)
	rows := []PreparedRow{{Line: 2, Normalized: NormalizedRow{"company_name": "Acme"}}}

	if _, _, err := RunBatch(context.Background(), nil, def, rows, uuid.Nil, nil); err != ErrNotAuthenticated {
		t.Errorf("nil actor: err = %v, want ErrNotAuthenticated", err)
	}
	if _, _, err := RunBatch(context.Background(), nil, def, nil, testActor, nil); err != ErrNoValidRows {
		t.Errorf("no rows: err = %v, want ErrNoValidRows", err)
	}
}

func TestRunBatch_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	def := pipelineTestDef(nil)
	var rows []PreparedRow
	for i := 0; i < 10; i++ {
		rows = append(rows, PreparedRow{Line: i + 2, Normalized: NormalizedRow{"company_name": "Acme"}})
	}

	imported, _, err := RunBatch(ctx, nil, def, rows, testActor, func(done, imported, failed int) {
		if done == 3 {
			cancel()
		}
	})

	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if imported != 3 {
		t.Errorf("imported = %d, want 3 (rows before cancellation stay inserted)", imported)
	}
}

func TestRunBatch_ProgressCallback(t *testing.T) {
	def := pipelineTestDef(nil)
	rows := []PreparedRow{
		{Line: 2, Normalized: NormalizedRow{"company_name": "A"}},
		{Line: 3, Normalized: NormalizedRow{"company_name": "B"}},
	}

	var calls []int
	RunBatch(context.Background(), nil, def, rows, testActor, func(done, imported, failed int) {
		calls = append(calls, done)
	})

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("progress calls = %v, want [1 2]", calls)
	}
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		imported, failed int
		want             ImportPhase
	}{
		{10, 0, PhaseSucceeded},
		{0, 0, PhaseSucceeded},
		{9, 1, PhasePartiallySucceeded},
		{0, 5, PhaseFailed},
	}

	for _, tt := range tests {
		if got := PhaseFor(tt.imported, tt.failed); got != tt.want {
			t.Errorf("PhaseFor(%d, %d) = %v, want %v", tt.imported, tt.failed, got, tt.want)
		}
	}
}
