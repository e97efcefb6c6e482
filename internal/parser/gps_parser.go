package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// DefaultGPSSheetOptions GPS 里程报表默认选项
func DefaultGPSSheetOptions() GPSSheetOptions {
	return GPSSheetOptions{
		ProbeWindow:      DefaultProbeWindow,
		HeaderSubstrings: []string{"vehicle", "distance"},
		HeaderLevels:     1,
		VehicleField:     []string{"vehicle"},
		DistanceField:    []string{"distance", "km"},
	}
}

// GPSParser GPS 里程报表解析器
type GPSParser struct {
	file *excelize.File
	opts GPSSheetOptions
}

// NewGPSParser 创建 GPS 报表解析器
func NewGPSParser(file *excelize.File, opts GPSSheetOptions) *GPSParser {
	if opts.HeaderLevels <= 0 {
		opts.HeaderLevels = 1
	}
	return &GPSParser{file: file, opts: opts}
}

// ParseSheet 解析 GPS 里程 Sheet
// 里程解析失败的行按无效丢弃并计数（里程是该源的唯一载荷，置空即无意义）。
func (p *GPSParser) ParseSheet(sheetName string) ([]model.GPSReading, int, error) {
	rows, err := p.file.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet: %w", err)
	}

	headerRow, err := LocateHeader(rows, p.opts.ProbeWindow, p.opts.HeaderSubstrings)
	if err != nil {
		return nil, 0, tagSource(err, "gps")
	}

	levels := headerLevels(rows, headerRow, p.opts.HeaderLevels)
	schema := NormalizeHeaders(headerRow, levels...)

	cols, err := schema.ResolveRequired("gps", []RequiredField{
		{Name: "vehicle", Logical: p.opts.VehicleField, Mode: MatchContains},
		{Name: "distance", Logical: p.opts.DistanceField, Mode: MatchContains},
	})
	if err != nil {
		return nil, 0, err
	}

	dataStart := headerRow + len(levels)
	var readings []model.GPSReading
	skipped := 0

	for rowIdx := dataStart; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}

		rawVehicle := strings.TrimSpace(cellAt(row, cols["vehicle"]))
		if rawVehicle == "" {
			skipped++
			continue
		}

		distance := parseFloatPtr(cellAt(row, cols["distance"]))
		if distance == nil {
			skipped++
			continue
		}

		readings = append(readings, model.GPSReading{
			RawVehicle: rawVehicle,
			VehicleKey: NormalizeVehicle(rawVehicle),
			DistanceKM: *distance,
			RowNo:      rowIdx + 1,
		})
	}

	return readings, skipped, nil
}
