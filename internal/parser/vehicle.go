package parser

import "strings"

// FullConfidence 车号在主表中逐字命中的置信度
const FullConfidence = 100

// DefaultUnmatchedScore 未命中主表时的默认置信度（可用但待人工复核）
// 严格部署可配置为 0（直接拒绝），见 config.Audit.UnmatchedVehicleScore。
const DefaultUnmatchedScore = 50

// NormalizeVehicle 将自由格式车号规范化为比较键
// 顺序固定：转大写 → 去空格与连字符 → 去不间断空格 → 去首尾空白。
// 满足稳定性：NormalizeVehicle(NormalizeVehicle(x)) == NormalizeVehicle(x)。
func NormalizeVehicle(raw string) string {
	key := strings.ToUpper(raw)
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, nbsp, "")
	return strings.TrimSpace(key)
}

// MatchVehicle 将车号与主表比对并给出置信度
// 主表逐字命中记 100；未命中记 unmatchedScore。核心有意不做编辑距离等
// 近似匹配，调用方可在不改动对账逻辑的前提下替换更严格的比对策略。
func MatchVehicle(raw string, master map[string]struct{}, unmatchedScore int) (string, int) {
	key := NormalizeVehicle(raw)
	if _, ok := master[key]; ok {
		return key, FullConfidence
	}
	return key, unmatchedScore
}
