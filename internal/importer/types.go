// Package importer provides the business logic for CRM CSV imports.
// This package has no UI dependencies and can be used by any frontend.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// EntityKind identifies one of the three importable CRM record types.
// The set is closed: every switch over EntityKind handles exactly these values.
type EntityKind int

const (
	KindDeal EntityKind = iota
	KindInvestor
	KindPortfolioCompany
)

// String returns the URL/storage slug for the kind.
func (k EntityKind) String() string {
	switch k {
	case KindDeal:
		return "deals"
	case KindInvestor:
		return "investors"
	case KindPortfolioCompany:
		return "portfolio-companies"
	default:
		return "unknown"
	}
}

// ForeignKeyColumn returns the column used when related records (tasks, notes,
// drafts) reference an entity of this kind.
func (k EntityKind) ForeignKeyColumn() string {
	switch k {
	case KindDeal:
		return "deal_id"
	case KindInvestor:
		return "investor_id"
	case KindPortfolioCompany:
		return "portfolio_company_id"
	default:
		return ""
	}
}

// ParseKind resolves a URL slug to an EntityKind.
func ParseKind(s string) (EntityKind, error) {
	switch s {
	case "deals":
		return KindDeal, nil
	case "investors":
		return KindInvestor, nil
	case "portfolio-companies":
		return KindPortfolioCompany, nil
	default:
		return 0, fmt.Errorf("unknown entity kind: %s", s)
	}
}

// TemplateColumn describes one column of an entity's import template.
// Label is what the downloadable template and error messages show;
// Key is the canonical field key used throughout the pipeline.
type TemplateColumn struct {
	Key      string
	Label    string
	Required bool
}

// MappedRow maps template field keys to raw string values.
// Unmatched columns are present with an empty string value.
type MappedRow map[string]string

// NormalizedRow maps template field keys to typed values. Values are one of:
// string, int64 (currency minor units), int (bounded score), string in
// YYYY-MM-DD form (dates), or nil when a normalizer degraded the input.
// Invariant: every required field is either populated here or the row carries
// a corresponding ValidationError.
type NormalizedRow map[string]any

// ValidationError describes a single pre-import problem with a row.
// Line is 1-based and matches the source file's line number.
type ValidationError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Line, e.Message)
}

// BuildParamsFunc builds database insert parameters from a normalized row,
// attaching the importing actor as the creating-user reference.
type BuildParamsFunc func(row NormalizedRow, actor uuid.UUID) (any, error)

// InsertFunc inserts a single row into the database.
type InsertFunc func(ctx context.Context, db DBTX, params any) error

// ExportFunc returns all persisted rows of the entity as display strings,
// one slice per row, in ExportHeader column order.
type ExportFunc func(ctx context.Context, db DBTX, limit int) ([][]string, error)

// EntityDefinition contains everything needed to import one entity kind.
type EntityDefinition struct {
	Kind    EntityKind
	Title   string // Display name: "Deals"
	Columns []TemplateColumn

	// Normalize converts a mapped row to typed values. It is total: it never
	// fails, but may emit field-level validation errors (malformed email).
	Normalize func(row MappedRow) (NormalizedRow, []FieldError)

	BuildParams BuildParamsFunc
	Insert      InsertFunc

	ExportHeader []string
	Export       ExportFunc
}

// KeyColumn returns the field key that gates whole-row presence.
// By convention it is the first required column (company name).
func (d EntityDefinition) KeyColumn() string {
	for _, c := range d.Columns {
		if c.Required {
			return c.Key
		}
	}
	return ""
}

// ImportPhase indicates the current stage of import processing.
type ImportPhase string

const (
	PhaseIdle               ImportPhase = "idle"
	PhaseImporting          ImportPhase = "importing"
	PhaseSucceeded          ImportPhase = "succeeded"
	PhasePartiallySucceeded ImportPhase = "partially_succeeded"
	PhaseFailed             ImportPhase = "failed"
)

// Terminal reports whether the phase is one of the three end states.
func (p ImportPhase) Terminal() bool {
	switch p {
	case PhaseSucceeded, PhasePartiallySucceeded, PhaseFailed:
		return true
	}
	return false
}

// Progress represents the current state of an import operation.
type Progress struct {
	ImportID   string      `json:"importId"`
	Kind       string      `json:"kind"`
	Phase      ImportPhase `json:"phase"`
	FileName   string      `json:"fileName"`
	TotalRows  int         `json:"totalRows"`
	CurrentRow int         `json:"currentRow"`
	Imported   int         `json:"imported"`
	Skipped    int         `json:"skipped"`
	Error      string      `json:"error,omitempty"`
}

// Percent returns the progress as a percentage (0-100).
func (p Progress) Percent() int {
	if p.TotalRows <= 0 {
		return 0
	}
	return (p.CurrentRow * 100) / p.TotalRows
}

// ImportSummary is the terminal result of one import attempt. It is shown
// once and discarded, never persisted as-is (the import log keeps counts).
//
// Error (singular) reports whole-batch precondition failures; Errors (plural)
// reports per-row failures. Success is true only when zero rows failed, so a
// partial success is reported as success=false with imported > 0.
type ImportSummary struct {
	Success      bool     `json:"success"`
	Imported     int      `json:"imported,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	QualityScore *int     `json:"qualityScore,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// ImportResult couples the summary with bookkeeping for history and export.
type ImportResult struct {
	ImportID string
	Kind     EntityKind
	FileName string
	Summary  ImportSummary
	Total    int
	Skipped  int
	Duration time.Duration
}

// DraftStore is a write-through cache for form drafts keyed by entity
// identity ("deal_id:42"). Implementations must tolerate missing keys.
type DraftStore interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}
