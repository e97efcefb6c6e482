package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// DefaultIndentSheetOptions 台账解析默认选项
// ERP 导出的台账以 "base link" 列承载单号链接文本，作为表头定位锚点。
func DefaultIndentSheetOptions() IndentSheetOptions {
	return IndentSheetOptions{
		ProbeWindow:      DefaultProbeWindow,
		HeaderSubstrings: []string{"base link"},
		HeaderLevels:     1,
		RefField:         []string{"base link", "indent no", "ref"},
		VehicleField:     []string{"vehicle"},
		DateField:        []string{"date"},
		QuantityField:    []string{"qty", "quantity", "litre"},
	}
}

// IndentParser 台账（Indent 登记表）解析器
type IndentParser struct {
	file      *excelize.File
	extractor *IdentifierExtractor
	opts      IndentSheetOptions
}

// NewIndentParser 创建台账解析器
func NewIndentParser(file *excelize.File, extractor *IdentifierExtractor, opts IndentSheetOptions) *IndentParser {
	if opts.HeaderLevels <= 0 {
		opts.HeaderLevels = 1
	}
	return &IndentParser{file: file, extractor: extractor, opts: opts}
}

// ParseSheet 解析台账 Sheet
// 返回有效记录与被丢弃的无单号行数。表头定位或必需列解析失败为结构性
// 错误，整个源中止；日期/油量解析失败仅置空该字段，行保留。
func (p *IndentParser) ParseSheet(sheetName string) ([]*model.IndentRecord, int, error) {
	rows, err := p.file.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet: %w", err)
	}

	headerRow, err := LocateHeader(rows, p.opts.ProbeWindow, p.opts.HeaderSubstrings)
	if err != nil {
		return nil, 0, tagSource(err, "indent")
	}

	levels := headerLevels(rows, headerRow, p.opts.HeaderLevels)
	schema := NormalizeHeaders(headerRow, levels...)

	cols, err := schema.ResolveRequired("indent", []RequiredField{
		{Name: "ref", Logical: p.opts.RefField, Mode: MatchContains},
		{Name: "vehicle", Logical: p.opts.VehicleField, Mode: MatchContains},
		{Name: "date", Logical: p.opts.DateField, Mode: MatchContains},
		{Name: "quantity", Logical: p.opts.QuantityField, Mode: MatchContains},
	})
	if err != nil {
		return nil, 0, err
	}

	dataStart := headerRow + len(levels)
	var records []*model.IndentRecord
	skipped := 0

	for rowIdx := dataStart; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if isBlankRow(row) {
			continue
		}

		id, ok := p.extractor.Extract(cellAt(row, cols["ref"]))
		if !ok {
			// 无法提取单号的行不可用，不进入任何下游统计
			skipped++
			continue
		}

		rawVehicle := strings.TrimSpace(cellAt(row, cols["vehicle"]))
		records = append(records, &model.IndentRecord{
			CanonicalID: id,
			IndentDate:  parseDatePtr(cellAt(row, cols["date"])),
			RawVehicle:  rawVehicle,
			VehicleKey:  NormalizeVehicle(rawVehicle),
			Quantity:    parseFloatPtr(cellAt(row, cols["quantity"])),
			RowNo:       rowIdx + 1,
			SourceSheet: sheetName,
		})
	}

	return records, skipped, nil
}

// headerLevels 取表头的各层行（两级表头时含子表头行）
func headerLevels(rows [][]string, headerRow, levels int) [][]string {
	out := make([][]string, 0, levels)
	for i := 0; i < levels && headerRow+i < len(rows); i++ {
		out = append(out, rows[headerRow+i])
	}
	return out
}

// tagSource 为定位错误补充数据源名称
func tagSource(err error, source string) error {
	if e, ok := err.(*HeaderNotFoundError); ok {
		e.Source = source
	}
	return err
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
