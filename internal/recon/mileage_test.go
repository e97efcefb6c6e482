package recon

import (
	"testing"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

func TestAggregateMileage(t *testing.T) {
	t.Parallel()

	gps := []model.GPSReading{
		{VehicleKey: "KA01AB1234", DistanceKM: 120},
		{VehicleKey: "KA01AB1234", DistanceKM: 80},
		{VehicleKey: "KA02CD5678", DistanceKM: 50},
	}
	fuel := []model.FuelReading{
		{VehicleKey: "KA01AB1234", Quantity: 25},
		{VehicleKey: "KA01AB1234", Quantity: 15},
		// KA02CD5678 无油量读数
		// KA99ZZ0000 有油量但无里程，不产生输出行（左连接语义）
		{VehicleKey: "KA99ZZ0000", Quantity: 10},
	}

	rows := AggregateMileage(gps, fuel)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	// 输出按车辆键排序
	first := rows[0]
	if first.VehicleKey != "KA01AB1234" || first.DistanceKM != 200 {
		t.Fatalf("first row = %+v", first)
	}
	if first.FuelQty == nil || *first.FuelQty != 40 {
		t.Fatalf("fuel qty = %v, want 40", first.FuelQty)
	}
	if first.KmPerLitre == nil || *first.KmPerLitre != 5 {
		t.Fatalf("km/l = %v, want 5", first.KmPerLitre)
	}

	second := rows[1]
	if second.VehicleKey != "KA02CD5678" || second.DistanceKM != 50 {
		t.Fatalf("second row = %+v", second)
	}
	if second.FuelQty != nil || second.KmPerLitre != nil {
		t.Fatalf("missing fuel must stay nil: %+v", second)
	}
}

func TestAggregateMileageZeroFuel(t *testing.T) {
	t.Parallel()

	gps := []model.GPSReading{{VehicleKey: "KA01AB1234", DistanceKM: 100}}
	fuel := []model.FuelReading{{VehicleKey: "KA01AB1234", Quantity: 0}}

	rows := AggregateMileage(gps, fuel)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].FuelQty == nil || *rows[0].FuelQty != 0 {
		t.Fatalf("fuel qty = %v, want 0", rows[0].FuelQty)
	}
	// 除零确定性地产出 nil 而不是 Inf
	if rows[0].KmPerLitre != nil {
		t.Fatalf("km/l = %v, want nil on zero fuel", *rows[0].KmPerLitre)
	}
}

func TestFuelReadingsFromIndents(t *testing.T) {
	t.Parallel()

	q := 40.0
	indents := []*model.IndentRecord{
		{CanonicalID: "IND-3042", VehicleKey: "KA01AB1234", Quantity: &q},
		{CanonicalID: "IND-3055", VehicleKey: "KA02CD5678", Quantity: nil},
		{CanonicalID: "IND-3060", VehicleKey: "", Quantity: &q},
	}

	readings := FuelReadingsFromIndents(indents)
	if len(readings) != 1 {
		t.Fatalf("readings = %d, want 1", len(readings))
	}
	if readings[0].VehicleKey != "KA01AB1234" || readings[0].Quantity != 40 {
		t.Fatalf("reading = %+v", readings[0])
	}
}
