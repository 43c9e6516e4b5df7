// Package entity defines the import templates for the three CRM record
// kinds and registers them with the importer. Importing this package for
// side effects wires the full registry:
//
//	import _ "github.com/dealflowhq/dealflow/internal/entity"
package entity

import (
	"strconv"
	"strings"

	"github.com/dealflowhq/dealflow/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

func init() {
	registerDeals()
	registerInvestors()
	registerPortfolioCompanies()
}

// invalidEmailError builds the field error for a malformed email value.
func invalidEmailError(label string) importer.FieldError {
	return importer.FieldError{
		Field:   label,
		Message: "Invalid email format for " + label,
	}
}

// normalizeEmail validates an email cell. Empty input passes through; a
// non-empty malformed value produces a field error rather than a silent
// null, because a bad address is not auto-correctable.
func normalizeEmail(raw, label string) (string, *importer.FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !importer.ValidEmail(raw) {
		fe := invalidEmailError(label)
		return "", &fe
	}
	return raw, nil
}

// setCurrency stores parsed minor units or nil for degraded input.
func setCurrency(row importer.NormalizedRow, key, raw string) {
	if cents, ok := importer.ParseCurrency(raw); ok {
		row[key] = cents
	} else {
		row[key] = nil
	}
}

// setScore stores a bounded 0-100 score or nil for degraded input.
func setScore(row importer.NormalizedRow, key, raw string) {
	if n, ok := importer.ParseScore(raw, 0, 100); ok {
		row[key] = n
	} else {
		row[key] = nil
	}
}

// setDate stores an ISO date string or nil for degraded input.
func setDate(row importer.NormalizedRow, key, raw string) {
	if iso, ok := importer.ParseDate(raw); ok {
		row[key] = iso
	} else {
		row[key] = nil
	}
}

// text formats a pgtype.Text for CSV/XLSX export.
func text(v pgtype.Text) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

// cents formats a pgtype.Int8 currency column for export.
func cents(v pgtype.Int8) string {
	if !v.Valid {
		return ""
	}
	return importer.FormatCurrency(v.Int64)
}

// score formats a pgtype.Int4 score column for export.
func score(v pgtype.Int4) string {
	if !v.Valid {
		return ""
	}
	return strconv.Itoa(int(v.Int32))
}

// date formats a pgtype.Date column for export.
func date(v pgtype.Date) string {
	if !v.Valid {
		return ""
	}
	return v.Time.Format("2006-01-02")
}
