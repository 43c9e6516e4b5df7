package importer

// convert.go bridges normalized row values to pgtype values for insertion.
// All helpers return Valid=false for missing or null fields, letting the
// database store NULLs for degraded input.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PgText extracts a string field as pgtype.Text.
func PgText(row NormalizedRow, key string) pgtype.Text {
	s, ok := row[key].(string)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// PgCents extracts a currency field (int64 minor units) as pgtype.Int8.
func PgCents(row NormalizedRow, key string) pgtype.Int8 {
	n, ok := row[key].(int64)
	if !ok {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: n, Valid: true}
}

// PgScore extracts a bounded integer field as pgtype.Int4.
func PgScore(row NormalizedRow, key string) pgtype.Int4 {
	n, ok := row[key].(int)
	if !ok {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(n), Valid: true}
}

// PgDate extracts an ISO date field as pgtype.Date.
func PgDate(row NormalizedRow, key string) pgtype.Date {
	s, ok := row[key].(string)
	if !ok || s == "" {
		return pgtype.Date{Valid: false}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
