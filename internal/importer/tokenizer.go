package importer

// tokenizer.go splits raw CSV text into rows of string fields.
//
// The parser is deliberately narrow rather than RFC 4180 compliant: it
// respects commas inside double-quoted fields but does not unescape doubled
// quotes ("") to a literal quote. User exports from CRMs and spreadsheets in
// practice stay within this subset, and tolerating ragged input beats
// rejecting it here (validation catches real problems later).

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Tokenized holds the header row and data rows of one parsed file.
type Tokenized struct {
	Headers []string
	Rows    [][]string
}

// Tokenize splits raw file text into a header row and data rows.
//
// Lines are split on \n (with \r trimmed), blank lines are discarded, and the
// first non-blank line is always the header. Rows whose fields are all empty
// after trimming are dropped. A file with fewer than two non-blank lines
// yields zero data rows rather than an error.
func Tokenize(text string) Tokenized {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Tokenized{}
	}

	headers := splitLine(lines[0])
	if len(lines) < 2 {
		return Tokenized{Headers: headers}
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := splitLine(line)
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	return Tokenized{Headers: headers, Rows: rows}
}

// splitLine scans a single line character by character, toggling an inQuotes
// flag on each '"'. A comma inside quotes is part of the field, not a
// separator. Fields are trimmed and stripped of any remaining quotes.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(cur.String()))

	return fields
}

// cleanField trims whitespace and strips any remaining quote characters.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}

// isEmptyRow reports whether every field is empty after trimming.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SanitizeUTF8 replaces invalid byte sequences with the Unicode replacement
// character so the tokenizer always operates on valid UTF-8.
func SanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
