package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/praneshh19/fuel-audit-app/internal/model"
	"github.com/praneshh19/fuel-audit-app/internal/store"
)

func TestExportWorkbook(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fuelaudit.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	runID := uuid.NewString()
	if err := st.CreateRun(runID, "indent.xlsx", "gps.xlsx", "master.xlsx", "bills.txt"); err != nil {
		t.Fatalf("create run: %v", err)
	}

	date := time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	q := 40.0
	if err := st.BatchInsertReconRows(runID, []model.ReconciliationRow{
		{CanonicalID: "IND-3042", Status: model.StatusMatched, BillLine: "slip 3042",
			BillSource: "bills.txt", RawVehicle: "ka 01 ab 1234", VehicleKey: "KA01AB1234",
			IndentDate: &date, Quantity: &q, IndentRowNo: 4},
	}); err != nil {
		t.Fatalf("insert recon rows: %v", err)
	}
	if err := st.BatchInsertMileageRows(runID, []model.MileageRow{
		{VehicleKey: "KA02CD5678", DistanceKM: 50},
	}); err != nil {
		t.Fatalf("insert mileage rows: %v", err)
	}
	if err := st.FinishRun(runID, &model.AuditReport{RunID: runID, MatchedRows: 1, MileageRows: 1}); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	var lastPercent int
	f, err := NewExporter(st).Export(ExportOptions{RunID: runID}, func(p ProgressEvent) {
		if p.Percent < lastPercent {
			t.Fatalf("progress went backwards: %d -> %d", lastPercent, p.Percent)
		}
		lastPercent = p.Percent
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer f.Close()

	if lastPercent != 100 {
		t.Fatalf("final progress = %d, want 100", lastPercent)
	}

	for _, sheet := range []string{sheetRecon, sheetFraud, sheetExceptions, sheetMileage, sheetEvidence, sheetIndents} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("sheet %q missing (idx=%d, err=%v)", sheet, idx, err)
		}
	}

	got, err := f.GetCellValue(sheetRecon, "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "IND-3042" {
		t.Fatalf("recon A2 = %q, want IND-3042", got)
	}

	status, err := f.GetCellValue(sheetRecon, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if status != string(model.StatusMatched) {
		t.Fatalf("recon B2 = %q, want matched", status)
	}

	km, err := f.GetCellValue(sheetMileage, "B2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if km != "50" {
		t.Fatalf("mileage B2 = %q, want 50", km)
	}
}

func TestExportRejectsUnfinishedRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fuelaudit.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	runID := uuid.NewString()
	if err := st.CreateRun(runID, "a", "b", "c", ""); err != nil {
		t.Fatalf("create run: %v", err)
	}

	if _, err := NewExporter(st).Export(ExportOptions{RunID: runID}, nil); err == nil {
		t.Fatal("expected error for processing run")
	}
}
