package importer

// normalize.go provides per-field normalizers for CSV cell values.
//
// These handle the messy reality of user-provided CRM exports: currency
// symbols and thousands separators in amounts, a dozen date formats, and
// free-text values in constrained enum columns.
//
// Every normalizer is a pure, total function: invalid input degrades to the
// zero result (ok=false) or a fixed fallback, never an error. The one
// exception is email, which is validated rather than normalized because a
// malformed address is not auto-correctable the way a stage fallback is;
// its failure surfaces through the row validator's error channel.

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PipelineStages is the closed set of deal funnel positions.
var PipelineStages = []string{
	"Initial Contact",
	"Qualified",
	"First Meeting",
	"Due Diligence",
	"Partner Meeting",
	"Term Sheet",
	"Negotiation",
	"Closed Won",
	"Closed Lost",
}

// DefaultPipelineStage is the fallback for unrecognized pipeline stage input.
const DefaultPipelineStage = "Initial Contact"

// RoundStages is the closed set of financing round labels.
var RoundStages = []string{
	"Pre-Seed",
	"Seed",
	"Series A",
	"Series B",
	"Series C",
	"Series D",
	"Growth",
}

// emailRegex accepts anything shaped local@domain.tld without whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// nonNumericRegex strips everything that is not a digit, minus, or dot.
var nonNumericRegex = regexp.MustCompile(`[^0-9.\-]`)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseCurrency converts a currency string ("$1,234.56") to integer minor
// units (123456). Negative amounts and non-numbers return ok=false. Storing
// cents avoids float drift in monetary columns.
func ParseCurrency(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), true
}

// FormatCurrency renders minor units back as a plain decimal string.
func FormatCurrency(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).String()
}

// ParseDate parses a free-text date and returns it in ISO YYYY-MM-DD form,
// discarding any time of day. Unparseable input returns ok=false.
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	return "", false
}

// ParseScore parses a bounded integer score, stripping junk characters
// first. Values outside [min, max] return ok=false.
func ParseScore(s string, min, max int) (int, bool) {
	s = nonNumericRegex.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	n := int(d.IntPart())
	if n < min || n > max {
		return 0, false
	}
	return n, true
}

// NormalizePipelineStage returns the input only if it exactly matches one of
// the allowed pipeline stages; anything else falls back to the default so
// free-text drift cannot corrupt the constrained column.
func NormalizePipelineStage(s string) string {
	s = strings.TrimSpace(s)
	for _, stage := range PipelineStages {
		if s == stage {
			return stage
		}
	}
	return DefaultPipelineStage
}

// NormalizeRoundStage returns the input only if it matches an allowed round
// stage; anything else returns ok=false (stored as NULL).
func NormalizeRoundStage(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, stage := range RoundStages {
		if s == stage {
			return stage, true
		}
	}
	return "", false
}

// NormalizeWebsite prepends https:// when the value lacks an http prefix.
func NormalizeWebsite(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "http") {
		return "https://" + s
	}
	return s
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}
