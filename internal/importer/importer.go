package importer

// importer.go contains the batch import loop.
//
// Each import invocation walks a fixed state machine:
//
//	Idle -> Importing -> {Succeeded | PartiallySucceeded | Failed}
//
// All three end states are terminal: there is no retry and no rollback of
// partial success. Rows already inserted stay inserted even when a later row
// fails. Rows are inserted strictly sequentially; the loop awaits each insert
// before proceeding, which bounds throughput but avoids ordering hazards and
// never overwhelms the backing store with concurrent writes.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotAuthenticated is returned when an import is attempted without an
// authenticated actor. The whole batch fails; no rows are attempted.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoValidRows is returned when validation left nothing to import.
var ErrNoValidRows = errors.New("no valid rows to import")

// PreparedRow is one validated, normalized row awaiting insertion.
type PreparedRow struct {
	Line       int // 1-based source line number
	Normalized NormalizedRow
}

// PreparedBatch is the output of the pre-import pipeline for one file.
type PreparedBatch struct {
	Rows             []PreparedRow     // rows eligible for import
	ValidationErrors []ValidationError // rows excluded by validation
	SkippedBlank     int               // blank-key, all-blank rows dropped silently
}

// PrepareBatch runs tokenizer output through the header mapper, the field
// normalizers, and the row validator. Rows with validation errors are
// excluded from the importable set; fully-blank rows are skipped without
// being counted as errors.
func PrepareBatch(def EntityDefinition, tok Tokenized) PreparedBatch {
	var batch PreparedBatch

	for i, row := range tok.Rows {
		line := i + 2 // 1-based, after the header row

		mapped := MapRow(tok.Headers, row, def.Columns)
		normalized, fieldErrs := def.Normalize(mapped)

		errs, skip := ValidateRow(def, mapped, fieldErrs, line)
		if skip {
			batch.SkippedBlank++
			continue
		}
		if len(errs) > 0 {
			batch.ValidationErrors = append(batch.ValidationErrors, errs...)
			continue
		}

		batch.Rows = append(batch.Rows, PreparedRow{Line: line, Normalized: normalized})
	}

	return batch
}

// RowProgressFunc is invoked after each row attempt with running counts.
type RowProgressFunc func(done, imported, failed int)

// RunBatch persists each prepared row independently, attaching the actor as
// the creating-user reference. A failed insert is recorded as
// "Row {n}: {message}" and the loop continues; there is no abort on first
// failure. The context is checked before every row so a cancelled import
// stops between inserts rather than running to completion.
func RunBatch(ctx context.Context, db DBTX, def EntityDefinition, rows []PreparedRow, actor uuid.UUID, onRow RowProgressFunc) (imported int, rowErrs []string, err error) {
	if actor == uuid.Nil {
		return 0, nil, ErrNotAuthenticated
	}
	if len(rows) == 0 {
		return 0, nil, ErrNoValidRows
	}

	for i, row := range rows {
		if ctx.Err() != nil {
			return imported, rowErrs, ctx.Err()
		}

		params, buildErr := def.BuildParams(row.Normalized, actor)
		if buildErr != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", row.Line, buildErr))
		} else if insertErr := def.Insert(ctx, db, params); insertErr != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", row.Line, insertErr))
		} else {
			imported++
		}

		if onRow != nil {
			onRow(i+1, imported, len(rowErrs))
		}
	}

	return imported, rowErrs, nil
}

// PhaseFor maps final counts to the terminal phase of the state machine.
func PhaseFor(imported, failed int) ImportPhase {
	switch {
	case failed == 0:
		return PhaseSucceeded
	case imported > 0:
		return PhasePartiallySucceeded
	default:
		return PhaseFailed
	}
}
