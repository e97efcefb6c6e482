package parser

import "testing"

func TestExtractProfiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		profile PatternProfile
		text    string
		want    string
		ok      bool
	}{
		{ProfileDigits3to6, "Indent slip 3042 issued", "IND-3042", true},
		{ProfileDigits3to6, "ref 12", "", false},
		{ProfileDigits3to6, "1234567", "IND-123456", true},
		{ProfileColonDigit, "单号: 3042 柴油 40L", "IND-3042", true},
		{ProfileColonDigit, "单号：98765", "IND-98765", true},
		{ProfileColonDigit, "3042 无冒号", "", false},
		{ProfileRange30xx, "slip 3150 ok", "IND-3150", true},
		{ProfileRange30xx, "slip 3250", "", false},
		{ProfileRange30xx, "", "", false},
	}

	for _, tc := range cases {
		e, err := NewIdentifierExtractor(tc.profile, FormatPrefixed)
		if err != nil {
			t.Fatalf("new extractor %s: %v", tc.profile, err)
		}
		got, ok := e.Extract(tc.text)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Extract(%s, %q) = (%q, %v), want (%q, %v)",
				tc.profile, tc.text, got, ok, tc.want, tc.ok)
		}
	}
}

func TestExtractRawFormat(t *testing.T) {
	t.Parallel()

	e, err := NewIdentifierExtractor(ProfileDigits3to6, FormatRaw)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	got, ok := e.Extract("slip 3042")
	if !ok || got != "3042" {
		t.Fatalf("raw extract = (%q, %v), want (3042, true)", got, ok)
	}
}

func TestNewIdentifierExtractorDefaults(t *testing.T) {
	t.Parallel()

	e, err := NewIdentifierExtractor("", "")
	if err != nil {
		t.Fatalf("new extractor with defaults: %v", err)
	}
	if got, ok := e.Extract("slip 3042"); !ok || got != "IND-3042" {
		t.Fatalf("default extract = %q, want IND-3042", got)
	}

	if _, err := NewIdentifierExtractor("bogus", FormatPrefixed); err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if _, err := NewIdentifierExtractor(ProfileDigits3to6, "bogus"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestBuildBillEvidenceFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	e, err := NewIdentifierExtractor(ProfileDigits3to6, FormatPrefixed)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	lines := []TextLine{
		{Source: "a.txt", No: 1, Text: "slip 3042 diesel"},
		{Source: "a.txt", No: 2, Text: "no id here"},
		{Source: "a.txt", No: 3, Text: "  slip 3042 again  "},
		{Source: "b.txt", No: 4, Text: "slip 3055"},
		{Source: "b.txt", No: 5, Text: "slip 3042 third time"},
	}

	evidence := e.BuildBillEvidence(lines)
	if len(evidence) != 2 {
		t.Fatalf("evidence count = %d, want 2", len(evidence))
	}

	first := evidence[0]
	if first.CanonicalID != "IND-3042" || first.LineNo != 1 || first.Source != "a.txt" {
		t.Fatalf("first evidence = %+v, want first occurrence from a.txt line 1", first)
	}
	if first.Line != "slip 3042 diesel" {
		t.Fatalf("evidence line = %q, want trimmed original text", first.Line)
	}
	if evidence[1].CanonicalID != "IND-3055" {
		t.Fatalf("second evidence = %+v, want IND-3055", evidence[1])
	}
}
