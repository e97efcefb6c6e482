package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook 在内存中构造测试工作簿
func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func newTestExtractor(t *testing.T) *IdentifierExtractor {
	t.Helper()
	e, err := NewIdentifierExtractor(ProfileDigits3to6, FormatPrefixed)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	return e
}

func TestIndentParserParseSheet(t *testing.T) {
	t.Parallel()

	f := buildWorkbook(t, [][]interface{}{
		{"车队油料台账 2026-07"},
		{},
		{"Base Link", "Vehicle", "Date", "Qty"},
		{"slip 3042", "ka 01 ab 1234", "2026-07-02", "40.5"},
		{"no ref here", "ka 02 cd 5678", "2026-07-03", "30"},
		{"slip 3055", "KA-02-CD-5678", "not a date", "oops"},
		{},
		{"slip 3042", "ka 01 ab 1234", "2026-07-05", "25"},
	})

	records, skipped, err := NewIndentParser(f, newTestExtractor(t), DefaultIndentSheetOptions()).ParseSheet("Sheet1")
	if err != nil {
		t.Fatalf("parse sheet: %v", err)
	}

	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1 (row without identifier)", skipped)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	first := records[0]
	if first.CanonicalID != "IND-3042" || first.VehicleKey != "KA01AB1234" || first.RowNo != 4 {
		t.Fatalf("first record = %+v", first)
	}
	if first.Quantity == nil || *first.Quantity != 40.5 {
		t.Fatalf("first quantity = %v, want 40.5", first.Quantity)
	}
	if first.IndentDate == nil || first.IndentDate.Format("2006-01-02") != "2026-07-02" {
		t.Fatalf("first date = %v, want 2026-07-02", first.IndentDate)
	}

	// 日期/油量解析失败仅置空，行保留
	bad := records[1]
	if bad.CanonicalID != "IND-3055" {
		t.Fatalf("second record = %+v, want IND-3055", bad)
	}
	if bad.IndentDate != nil || bad.Quantity != nil {
		t.Fatalf("malformed fields should be nil: date=%v qty=%v", bad.IndentDate, bad.Quantity)
	}

	// 同单号的第二次使用照常保留，由对账引擎负责检出
	if records[2].CanonicalID != "IND-3042" || records[2].RowNo != 8 {
		t.Fatalf("third record = %+v", records[2])
	}
}

func TestIndentParserHeaderNotFound(t *testing.T) {
	t.Parallel()

	f := buildWorkbook(t, [][]interface{}{
		{"只有说明文字"},
		{"没有表头"},
	})

	_, _, err := NewIndentParser(f, newTestExtractor(t), DefaultIndentSheetOptions()).ParseSheet("Sheet1")
	if err == nil {
		t.Fatal("expected header-not-found error")
	}
	notFound, ok := err.(*HeaderNotFoundError)
	if !ok {
		t.Fatalf("error type = %T, want *HeaderNotFoundError", err)
	}
	if notFound.Source != "indent" {
		t.Fatalf("source = %q, want indent", notFound.Source)
	}
}

func TestGPSParserSkipsUnparseableDistance(t *testing.T) {
	t.Parallel()

	f := buildWorkbook(t, [][]interface{}{
		{"Vehicle", "Distance (km)"},
		{"ka 01 ab 1234", "120.5"},
		{"ka 01 ab 1234", "80"},
		{"ka 02 cd 5678", "n/a"},
		{"", "50"},
	})

	readings, skipped, err := NewGPSParser(f, DefaultGPSSheetOptions()).ParseSheet("Sheet1")
	if err != nil {
		t.Fatalf("parse sheet: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
	if len(readings) != 2 {
		t.Fatalf("readings = %d, want 2", len(readings))
	}
	if readings[0].VehicleKey != "KA01AB1234" || readings[0].DistanceKM != 120.5 {
		t.Fatalf("first reading = %+v", readings[0])
	}
}

func TestMasterParserBuildsKeySet(t *testing.T) {
	t.Parallel()

	f := buildWorkbook(t, [][]interface{}{
		{"车辆主表"},
		{"Vehicle Reg No", "Owner"},
		{"ka 01 ab 1234", "自有"},
		{"KA-02-CD-5678", "外协"},
		{"", ""},
	})

	master, err := NewMasterParser(f, DefaultMasterSheetOptions()).ParseSheet("Sheet1")
	if err != nil {
		t.Fatalf("parse sheet: %v", err)
	}
	if len(master) != 2 {
		t.Fatalf("master size = %d, want 2", len(master))
	}
	if _, ok := master["KA01AB1234"]; !ok {
		t.Fatal("KA01AB1234 missing from master set")
	}
	if _, ok := master["KA02CD5678"]; !ok {
		t.Fatal("KA02CD5678 missing from master set")
	}
}
