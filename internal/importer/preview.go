package importer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/praneshh19/fuel-audit-app/internal/parser"
)

// HeaderCandidate 探测窗口内一行的表头解读
type HeaderCandidate struct {
	RowNo   int      `json:"rowNo"` // 1 起
	Headers []string `json:"headers"`
	Anchor  bool     `json:"anchor"` // 是否包含全部锚点子串
}

// PreviewResult 原始数据预览
// 供前端在正式稽核前核对表头定位是否符合预期。
type PreviewResult struct {
	Sheet      string            `json:"sheet"`
	RawRows    [][]string        `json:"rawRows"`
	Candidates []HeaderCandidate `json:"candidates"`
}

// PreviewFile 读取文件前若干行并给出探测窗口内每行的表头解读
func PreviewFile(path string, probeWindow int, anchors []string) (*PreviewResult, error) {
	if probeWindow <= 0 {
		probeWindow = parser.DefaultProbeWindow
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := firstSheet(f)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	limit := probeWindow
	if limit > len(rows) {
		limit = len(rows)
	}

	result := &PreviewResult{
		Sheet:   sheet,
		RawRows: rows[:limit],
	}

	for i := 0; i < limit; i++ {
		schema := parser.NormalizeHeaders(i, rows[i])
		result.Candidates = append(result.Candidates, HeaderCandidate{
			RowNo:   i + 1,
			Headers: schema.Order,
			Anchor:  parser.ContainsAll(strings.Join(schema.Order, " "), anchors),
		})
	}

	return result, nil
}
