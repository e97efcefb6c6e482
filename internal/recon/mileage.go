package recon

import (
	"sort"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// AggregateMileage 按规范化车辆键汇总里程与油量并推导公里油耗比
// 两个来源独立求和（行基数无需一致），油量按左连接挂到里程汇总上：
// 有里程无油量的车辆保留 nil 油量。比值仅在油量大于 0 时计算，
// 除零或缺失确定性地产出 nil，绝不抛错。输出按车辆键排序。
func AggregateMileage(gps []model.GPSReading, fuel []model.FuelReading) []model.MileageRow {
	distance := make(map[string]float64, len(gps))
	for _, r := range gps {
		distance[r.VehicleKey] += r.DistanceKM
	}

	fuelSum := make(map[string]float64, len(fuel))
	for _, r := range fuel {
		fuelSum[r.VehicleKey] += r.Quantity
	}

	keys := make([]string, 0, len(distance))
	for k := range distance {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]model.MileageRow, 0, len(keys))
	for _, key := range keys {
		row := model.MileageRow{
			VehicleKey: key,
			DistanceKM: distance[key],
		}
		if qty, ok := fuelSum[key]; ok {
			q := qty
			row.FuelQty = &q
			if q > 0 {
				ratio := row.DistanceKM / q
				row.KmPerLitre = &ratio
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// FuelReadingsFromIndents 从台账记录提取油量读数
// 油量缺失（解析失败）的记录不产生读数。
func FuelReadingsFromIndents(indents []*model.IndentRecord) []model.FuelReading {
	readings := make([]model.FuelReading, 0, len(indents))
	for _, rec := range indents {
		if rec.Quantity == nil || rec.VehicleKey == "" {
			continue
		}
		readings = append(readings, model.FuelReading{
			VehicleKey: rec.VehicleKey,
			Quantity:   *rec.Quantity,
		})
	}
	return readings
}
