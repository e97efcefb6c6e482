package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// PatternProfile 单号数字模式
// 不同来源的台账/单据对单号写法各异，观测到的三种写法统一为可配置模式。
type PatternProfile string

const (
	ProfileDigits3to6 PatternProfile = "digits_3to6"           // 首个 3-6 位连续数字
	ProfileColonDigit PatternProfile = "colon_prefixed_digits" // 冒号后紧跟的数字串
	ProfileRange30xx  PatternProfile = "range_30xx_31xx"       // 30xx/31xx 段的 4 位单号
)

// CanonicalFormat 规范化单号输出格式
type CanonicalFormat string

const (
	FormatPrefixed CanonicalFormat = "prefixed" // IND-<digits>
	FormatRaw      CanonicalFormat = "raw"      // 仅数字串
)

// CanonicalPrefix 带前缀格式的固定前缀
const CanonicalPrefix = "IND-"

// IdentifierExtractor 从任意文本片段中提取规范化单号
type IdentifierExtractor struct {
	re     *regexp.Regexp
	group  int // 数字串所在捕获组
	format CanonicalFormat
}

// NewIdentifierExtractor 按模式与输出格式创建提取器
func NewIdentifierExtractor(profile PatternProfile, format CanonicalFormat) (*IdentifierExtractor, error) {
	e := &IdentifierExtractor{format: format}

	switch profile {
	case ProfileDigits3to6, "":
		e.re = regexp.MustCompile(`[0-9]{3,6}`)
	case ProfileColonDigit:
		e.re = regexp.MustCompile(`[:：]\s*([0-9]+)`)
		e.group = 1
	case ProfileRange30xx:
		e.re = regexp.MustCompile(`3[01][0-9]{2}`)
	default:
		return nil, fmt.Errorf("unknown identifier pattern profile: %q", profile)
	}

	switch format {
	case FormatPrefixed, FormatRaw:
	case "":
		e.format = FormatPrefixed
	default:
		return nil, fmt.Errorf("unknown canonical format: %q", format)
	}

	return e, nil
}

// Extract 提取首个命中的单号
// 无命中或空输入返回 ok=false——多数文本行本就不是单号，这是常态而非错误。
func (e *IdentifierExtractor) Extract(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	m := e.re.FindStringSubmatch(text)
	if m == nil || len(m) <= e.group || m[e.group] == "" {
		return "", false
	}

	digits := m[e.group]
	if e.format == FormatRaw {
		return digits, true
	}
	return CanonicalPrefix + digits, true
}

// TextLine 一条待提取的文本行（OCR 转写或直接录入）
type TextLine struct {
	Source string
	No     int // 汇总序列中的行号（1 起）
	Text   string
}

// BuildBillEvidence 将文本行序列转换为单据证据
// 同一单号仅保留首次出现的证据，后续重复静默丢弃；未命中单号的行不保留。
func (e *IdentifierExtractor) BuildBillEvidence(lines []TextLine) []model.BillEvidence {
	var evidence []model.BillEvidence
	seen := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		id, ok := e.Extract(line.Text)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		evidence = append(evidence, model.BillEvidence{
			CanonicalID: id,
			Line:        strings.TrimSpace(line.Text),
			LineNo:      line.No,
			Source:      line.Source,
		})
	}

	return evidence
}
