package parser

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultProbeWindow 表头探测窗口默认行数
const DefaultProbeWindow = 20

// LocateHeader 在探测窗口内定位表头行
// 将每行单元格规范化后以空格拼接，包含全部关键子串的首行即为表头；
// 窗口内无命中时返回 HeaderNotFoundError，由调用方补充数据源名称。
func LocateHeader(rows [][]string, probeWindow int, required []string) (int, error) {
	if probeWindow <= 0 {
		probeWindow = DefaultProbeWindow
	}
	limit := probeWindow
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		cells := make([]string, 0, len(rows[i]))
		for _, c := range rows[i] {
			cells = append(cells, NormalizeHeaderCell(c))
		}
		joined := strings.Join(cells, " ")
		if ContainsAll(joined, required) {
			return i, nil
		}
	}

	return 0, &HeaderNotFoundError{Required: required, Probed: limit}
}

// NormalizeHeaders 将表头行规范化为去重后的列名映射
// 支持两级表头：上级分组名与下级子名以单个空格拼接，占位（unnamed）层级丢弃。
// 规范化后的重名按出现顺序追加 ".1"、".2" 等稳定后缀。
func NormalizeHeaders(headerRow int, levels ...[]string) *ResolvedSchema {
	width := 0
	for _, level := range levels {
		if len(level) > width {
			width = len(level)
		}
	}

	schema := &ResolvedSchema{
		HeaderRow: headerRow,
		Columns:   make(map[string]int, width),
		Order:     make([]string, 0, width),
	}

	seen := make(map[string]int, width)
	for col := 0; col < width; col++ {
		parts := make([]string, 0, len(levels))
		for _, level := range levels {
			if col >= len(level) || IsUnnamedHeader(level[col]) {
				continue
			}
			parts = append(parts, NormalizeHeaderCell(level[col]))
		}

		name := strings.Join(parts, " ")
		name = NormalizeHeaderCell(name)

		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}

		schema.Columns[name] = col
		schema.Order = append(schema.Order, name)
	}

	return schema
}

// ResolveField 将逻辑字段名解析为实际列名
// exact 要求逻辑名与规范化列名全等；contains 按表头顺序取首个包含该子串的列
// （首个命中即止是约定的决胜规则，不做最长匹配或频次消歧）。
func (s *ResolvedSchema) ResolveField(logical string, mode MatchMode) (string, bool) {
	logical = NormalizeHeaderCell(logical)

	switch mode {
	case MatchExact:
		if _, ok := s.Columns[logical]; ok {
			return logical, true
		}
	case MatchContains:
		for _, name := range s.Order {
			if strings.Contains(name, logical) {
				return name, true
			}
		}
	}

	return "", false
}

// ResolveAny 依次尝试候选逻辑名，命中即止
func (s *ResolvedSchema) ResolveAny(logicals []string, mode MatchMode) (string, bool) {
	for _, logical := range logicals {
		if name, ok := s.ResolveField(logical, mode); ok {
			return name, true
		}
	}
	return "", false
}

// Column 按规范化列名取列号
func (s *ResolvedSchema) Column(name string) (int, bool) {
	idx, ok := s.Columns[name]
	return idx, ok
}

// ResolveRequired 解析一组必需逻辑字段
// 缺失字段一次性聚合为 MissingColumnsError，而不是逐个报错。
func (s *ResolvedSchema) ResolveRequired(source string, fields []RequiredField) (map[string]int, error) {
	resolved := make(map[string]int, len(fields))
	var missing []string

	for _, f := range fields {
		name, ok := s.ResolveAny(f.Logical, f.Mode)
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		resolved[f.Name] = s.Columns[name]
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{
			Source:  source,
			Missing: missing,
			Headers: append([]string(nil), s.Order...),
		}
	}

	return resolved, nil
}
