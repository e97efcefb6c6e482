package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMasterSheetOptions 车辆主表默认选项
func DefaultMasterSheetOptions() MasterSheetOptions {
	return MasterSheetOptions{
		ProbeWindow:      DefaultProbeWindow,
		HeaderSubstrings: []string{"vehicle"},
		VehicleField:     []string{"vehicle", "reg no"},
	}
}

// MasterParser 车辆主表解析器
// 主表是集合而非映射：只关心规范化车辆键的成员关系。
type MasterParser struct {
	file *excelize.File
	opts MasterSheetOptions
}

// NewMasterParser 创建车辆主表解析器
func NewMasterParser(file *excelize.File, opts MasterSheetOptions) *MasterParser {
	return &MasterParser{file: file, opts: opts}
}

// ParseSheet 解析车辆主表 Sheet，返回规范化车辆键集合
func (p *MasterParser) ParseSheet(sheetName string) (map[string]struct{}, error) {
	rows, err := p.file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	headerRow, err := LocateHeader(rows, p.opts.ProbeWindow, p.opts.HeaderSubstrings)
	if err != nil {
		return nil, tagSource(err, "master")
	}

	schema := NormalizeHeaders(headerRow, rows[headerRow])
	cols, err := schema.ResolveRequired("master", []RequiredField{
		{Name: "vehicle", Logical: p.opts.VehicleField, Mode: MatchContains},
	})
	if err != nil {
		return nil, err
	}

	master := make(map[string]struct{})
	for rowIdx := headerRow + 1; rowIdx < len(rows); rowIdx++ {
		raw := strings.TrimSpace(cellAt(rows[rowIdx], cols["vehicle"]))
		if raw == "" {
			continue
		}
		master[NormalizeVehicle(raw)] = struct{}{}
	}

	return master, nil
}
