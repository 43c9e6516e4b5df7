package importer

import "testing"

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1000", 100000, true},
		{"$1,234.56", 123456, true},
		{"19.99", 1999, true},
		{"$ 5 000", 500000, true},
		{"0", 0, true},
		{"0.005", 1, true}, // rounds to nearest cent
		{"-100", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCurrency(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseCurrency(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{100000, "1000"},
		{123456, "1234.56"},
		{1999, "19.99"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.cents); got != tt.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2026-03-15", "2026-03-15", true},
		{"2026/03/15", "2026-03-15", true},
		{"3/15/2026", "2026-03-15", true},
		{"03/15/2026", "2026-03-15", true},
		{"Mar 15, 2026", "2026-03-15", true},
		{"15 Mar 2026", "2026-03-15", true},
		{"March 15, 2026", "2026-03-15", true},
		{"2026-03-15T10:30:00Z", "2026-03-15", true},
		{"", "", false},
		{"not a date", "", false},
		{"15/03/2026", "", false}, // month 15 does not parse
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"85", 85, true},
		{" 100 ", 100, true},
		{"0", 0, true},
		{"85%", 85, true}, // junk stripped
		{"101", 0, false},
		{"-1", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseScore(tt.in, 0, 100)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseScore(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizePipelineStage(t *testing.T) {
	// Exact matches pass through
	for _, stage := range PipelineStages {
		if got := NormalizePipelineStage(stage); got != stage {
			t.Errorf("NormalizePipelineStage(%q) = %q", stage, got)
		}
	}

	// Everything else falls back; the normalizer is total
	for _, in := range []string{"", "bogus", "closed won", "QUALIFIED", " Term  Sheet "} {
		if got := NormalizePipelineStage(in); got != DefaultPipelineStage {
			t.Errorf("NormalizePipelineStage(%q) = %q, want %q", in, got, DefaultPipelineStage)
		}
	}
}

func TestNormalizeRoundStage(t *testing.T) {
	for _, stage := range RoundStages {
		got, ok := NormalizeRoundStage(stage)
		if !ok || got != stage {
			t.Errorf("NormalizeRoundStage(%q) = (%q, %v)", stage, got, ok)
		}
	}

	for _, in := range []string{"", "series a", "Series E", "bogus"} {
		if _, ok := NormalizeRoundStage(in); ok {
			t.Errorf("NormalizeRoundStage(%q) should not match", in)
		}
	}
}

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"acme.com", "https://acme.com"},
		{"https://acme.com", "https://acme.com"},
		{"http://acme.com", "http://acme.com"},
		{"", ""},
		{"  acme.com  ", "https://acme.com"},
	}

	for _, tt := range tests {
		if got := NormalizeWebsite(tt.in); got != tt.want {
			t.Errorf("NormalizeWebsite(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe@acme.com", "x+tag@sub.domain.io"}
	for _, in := range valid {
		if !ValidEmail(in) {
			t.Errorf("ValidEmail(%q) = false, want true", in)
		}
	}

	invalid := []string{"", "plain", "a@b", "a b@c.com", "@acme.com", "a@.com "}
	for _, in := range invalid {
		if ValidEmail(in) {
			t.Errorf("ValidEmail(%q) = true, want false", in)
		}
	}
}
