package importer

import (
	"fmt"
	"strings"
)

// validate.go applies required-field and format checks to mapped rows,
// producing structured error records for the preview UI and import summary.

// FieldError is a field-level problem reported by a normalizer (currently
// only malformed email). The row validator folds these into ValidationErrors
// with the row's line number attached.
type FieldError struct {
	Field   string
	Message string
}

// ValidateRow checks one mapped row against the entity's template columns.
//
// The returned skip flag distinguishes two kinds of blank-key rows: a row
// with no key value and every other field blank is silently skipped (blank
// trailing lines are not user errors), while a row with no key value but
// other populated fields is flagged (likely partial or garbled input).
func ValidateRow(def EntityDefinition, mapped MappedRow, fieldErrs []FieldError, line int) (errs []ValidationError, skip bool) {
	keyCol := def.KeyColumn()

	keyBlank := strings.TrimSpace(mapped[keyCol]) == ""
	if keyBlank && mappedRowBlank(mapped) {
		return nil, true
	}

	for _, col := range def.Columns {
		if !col.Required {
			continue
		}
		if strings.TrimSpace(mapped[col.Key]) == "" {
			errs = append(errs, ValidationError{
				Line:    line,
				Field:   col.Label,
				Message: fmt.Sprintf("%s is required", col.Label),
			})
		}
	}

	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Line:    line,
			Field:   fe.Field,
			Message: fe.Message,
		})
	}

	return errs, false
}

// mappedRowBlank reports whether every mapped value is empty after trimming.
func mappedRowBlank(mapped MappedRow) bool {
	for _, v := range mapped {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
