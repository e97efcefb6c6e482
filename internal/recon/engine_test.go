package recon

import (
	"testing"
	"time"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return &d
}

func qty(v float64) *float64 { return &v }

func TestReconcileFullOuterJoin(t *testing.T) {
	t.Parallel()

	bills := []model.BillEvidence{
		{CanonicalID: "IND-3042", Line: "slip 3042 diesel", LineNo: 1, Source: "a.txt"},
		{CanonicalID: "IND-3099", Line: "slip 3099", LineNo: 2, Source: "a.txt"},
	}
	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", RawVehicle: "ka 01 ab 1234", VehicleKey: "KA01AB1234",
			IndentDate: day(t, "2026-07-02"), Quantity: qty(40), RowNo: 4},
		{CanonicalID: "IND-3055", RawVehicle: "ka 02 cd 5678", VehicleKey: "KA02CD5678",
			IndentDate: day(t, "2026-07-03"), Quantity: qty(30), RowNo: 5},
	}

	rows := NewEngine(Options{}).Reconcile(bills, indents)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	// 单据序优先：命中行在前，无台账行次之，无单据的台账行最后
	if rows[0].Status != model.StatusMatched || rows[0].CanonicalID != "IND-3042" {
		t.Fatalf("rows[0] = %+v, want matched IND-3042", rows[0])
	}
	if rows[0].BillLine != "slip 3042 diesel" || rows[0].VehicleKey != "KA01AB1234" {
		t.Fatalf("matched row should carry both sides: %+v", rows[0])
	}
	if rows[1].Status != model.StatusBillWithoutIndent || rows[1].CanonicalID != "IND-3099" {
		t.Fatalf("rows[1] = %+v, want bill_without_indent IND-3099", rows[1])
	}
	if rows[2].Status != model.StatusIndentWithoutBill || rows[2].CanonicalID != "IND-3055" {
		t.Fatalf("rows[2] = %+v, want indent_without_bill IND-3055", rows[2])
	}
}

func TestReconcilePairsEachDuplicateIndent(t *testing.T) {
	t.Parallel()

	bills := []model.BillEvidence{
		{CanonicalID: "IND-3042", Line: "slip 3042", LineNo: 1, Source: "a.txt"},
	}
	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", VehicleKey: "KA01AB1234", RowNo: 4},
		{CanonicalID: "IND-3042", VehicleKey: "KA02CD5678", RowNo: 9},
	}

	rows := NewEngine(Options{}).Reconcile(bills, indents)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want one matched row per indent occurrence", len(rows))
	}
	for _, r := range rows {
		if r.Status != model.StatusMatched {
			t.Fatalf("row status = %s, want matched", r.Status)
		}
	}
	if rows[0].IndentRowNo != 4 || rows[1].IndentRowNo != 9 {
		t.Fatalf("indent row order = %d, %d", rows[0].IndentRowNo, rows[1].IndentRowNo)
	}
}

func TestReconcileOwnerOverride(t *testing.T) {
	t.Parallel()

	bills := []model.BillEvidence{
		{CanonicalID: "IND-3042", Line: "slip 3042", LineNo: 1, Source: "a.txt"},
	}
	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", RawVehicle: "ka 01 ab 1234", VehicleKey: "KA01AB1234", RowNo: 4},
		{CanonicalID: "IND-3077", RawVehicle: "KA-01-AB-1234", VehicleKey: "KA01AB1234", RowNo: 7},
	}

	// 豁免名单的书写格式与台账不同，规范化后仍须命中
	engine := NewEngine(Options{OwnerVehicles: []string{"ka 01 ab 1234"}})
	rows := engine.Reconcile(bills, indents)

	for _, r := range rows {
		if r.Status != model.StatusOwnerException {
			t.Fatalf("row %+v: status = %s, want owner_exception override", r, r.Status)
		}
	}
}

func TestDetectDuplicates(t *testing.T) {
	t.Parallel()

	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", VehicleKey: "KA01AB1234", RowNo: 4},
		{CanonicalID: "IND-3042", VehicleKey: "KA02CD5678", RowNo: 9},
		{CanonicalID: "IND-3055", VehicleKey: "KA02CD5678", RowNo: 5},
	}

	frauds := NewEngine(Options{}).DetectDuplicates(indents)
	if len(frauds) != 2 {
		t.Fatalf("frauds = %d, want one row per duplicate occurrence", len(frauds))
	}
	for _, f := range frauds {
		if f.CanonicalID != "IND-3042" || f.Reason != model.ReasonDuplicateIndentUsage || f.Occurrences != 2 {
			t.Fatalf("fraud row = %+v", f)
		}
	}
	if frauds[0].IndentRowNo != 4 || frauds[1].IndentRowNo != 9 {
		t.Fatalf("fraud rows out of indent order: %d, %d", frauds[0].IndentRowNo, frauds[1].IndentRowNo)
	}
}

func TestDetectVehicleExceptions(t *testing.T) {
	t.Parallel()

	master := map[string]struct{}{"KA01AB1234": {}}
	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", RawVehicle: "ka 01 ab 1234", RowNo: 4},
		{CanonicalID: "IND-3055", RawVehicle: "MH 12 XY 9999", RowNo: 5},
	}

	// 宽松模式：未命中记 50，低于阈值 90，仍记异常
	exceptions := NewEngine(Options{UnmatchedScore: 50}).DetectVehicleExceptions(indents, master)
	if len(exceptions) != 1 {
		t.Fatalf("exceptions = %d, want 1", len(exceptions))
	}
	e := exceptions[0]
	if e.CanonicalID != "IND-3055" || e.VehicleKey != "MH12XY9999" || e.Confidence != 50 {
		t.Fatalf("exception = %+v", e)
	}
}
