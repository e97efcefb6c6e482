package parser

import (
	"fmt"
	"strings"
)

// HeaderNotFoundError 探测窗口内未找到表头行
// 结构性失败：错误的表头猜测会静默污染所有下游字段，因此该源整体中止。
type HeaderNotFoundError struct {
	Source   string   // 数据源名称（indent/gps/master）
	Required []string // 要求包含的关键子串
	Probed   int      // 实际探测的行数
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header row not found in source %q: no row within first %d rows contains all of [%s]",
		e.Source, e.Probed, strings.Join(e.Required, ", "))
}

// MissingColumnsError 表头已定位但必需逻辑字段未能解析
// 一次性列出全部缺失字段及检测到的完整表头，便于人工一次修正数据源。
type MissingColumnsError struct {
	Source  string
	Missing []string // 未解析的逻辑字段名
	Headers []string // 检测到的规范化表头，按列序
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("source %q is missing required columns [%s]; detected headers: [%s]",
		e.Source, strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}
