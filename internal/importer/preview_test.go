package importer

import (
	"testing"
)

func TestPreviewFile(t *testing.T) {
	dir := t.TempDir()

	path := writeWorkbook(t, dir, "indent.xlsx", [][]interface{}{
		{"车队油料台账"},
		{"Base Link", "Vehicle", "Date", "Qty"},
		{"slip 3042", "ka 01 ab 1234", "2026-07-02", "40"},
	})

	result, err := PreviewFile(path, 20, []string{"base link"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	if result.Sheet != "Sheet1" {
		t.Fatalf("sheet = %q, want Sheet1", result.Sheet)
	}
	if len(result.RawRows) != 3 {
		t.Fatalf("raw rows = %d, want 3", len(result.RawRows))
	}
	if len(result.Candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(result.Candidates))
	}

	if result.Candidates[0].Anchor {
		t.Fatal("title row must not be flagged as anchor")
	}
	second := result.Candidates[1]
	if !second.Anchor || second.RowNo != 2 {
		t.Fatalf("candidate = %+v, want anchor at row 2", second)
	}
	if len(second.Headers) != 4 || second.Headers[0] != "base link" {
		t.Fatalf("headers = %v", second.Headers)
	}
}
