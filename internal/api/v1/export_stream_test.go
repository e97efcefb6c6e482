package v1

import "testing"

func TestBuildExportContentDisposition(t *testing.T) {
	t.Parallel()

	got := buildExportContentDisposition("0f8fad5b-d9cb-469f-a165-70867728950e")
	want := `attachment; filename="fuel_audit_0f8fad5b.xlsx"`
	if got != want {
		t.Fatalf("content-disposition mismatch:\n got: %s\nwant: %s", got, want)
	}
}

func TestExportDownloadStoreOneTimeToken(t *testing.T) {
	t.Parallel()

	s := newExportDownloadStore()
	token := s.put("/tmp/export.xlsx", "run-1", 1000000000)

	item, ok := s.get(token)
	if !ok || item.filePath != "/tmp/export.xlsx" || item.runID != "run-1" {
		t.Fatalf("get = (%+v, %v)", item, ok)
	}

	s.delete(token)
	if _, ok := s.get(token); ok {
		t.Fatal("token must be invalid after delete")
	}
}

func TestExportDownloadStoreExpiry(t *testing.T) {
	t.Parallel()

	s := newExportDownloadStore()
	token := s.put("/tmp/export.xlsx", "run-1", -1)

	if _, ok := s.get(token); ok {
		t.Fatal("expired token must not resolve")
	}
}
