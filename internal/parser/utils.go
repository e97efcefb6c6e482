package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const nbsp = "\u00a0"

// NormalizeHeaderCell 规范化单个表头单元格
// 管线顺序固定：不间断空格/换行替换为单个空格 → 去首尾空白 → 转小写。
// 满足幂等性：NormalizeHeaderCell(NormalizeHeaderCell(x)) == NormalizeHeaderCell(x)。
func NormalizeHeaderCell(name string) string {
	name = strings.ReplaceAll(name, nbsp, " ")
	name = strings.ReplaceAll(name, "\r\n", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.TrimSpace(name)
	return strings.ToLower(name)
}

// IsUnnamedHeader 判断是否为合成的占位表头（二级表头合并单元格展开产生）
func IsUnnamedHeader(cell string) bool {
	c := NormalizeHeaderCell(cell)
	return c == "" || strings.HasPrefix(c, "unnamed")
}

// ContainsAll 检查文本是否包含全部关键子串（大小写不敏感）
func ContainsAll(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// parseFloatPtr 宽松解析数值，失败返回 nil（MalformedNumeric 按行内降级，不中止）
func parseFloatPtr(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, nbsp, "")
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// excel 序列日期纪元（1899-12-30，含 1900 闰年兼容偏移）
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// 台账中观测到的日期写法
var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
	"2006-01-02 15:04:05",
	"01-02-06",
}

// parseDatePtr 宽松解析日期，失败返回 nil
// 依次尝试常见文本格式；纯数值按 Excel 序列日期解释。
func parseDatePtr(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		days := math.Floor(serial)
		t := excelEpoch.AddDate(0, 0, int(days))
		return &t
	}
	return nil
}
