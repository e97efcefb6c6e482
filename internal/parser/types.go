package parser

// MatchMode 逻辑字段解析模式
type MatchMode int

const (
	MatchExact    MatchMode = iota // 规范化后全等
	MatchContains                  // 规范化后子串包含，按表头顺序取首个命中
)

// ResolvedSchema 规范化、去重后的列名到列号映射
// 创建后不可变；键的规范化满足幂等性（再次规范化结果不变）。
type ResolvedSchema struct {
	HeaderRow int            `json:"headerRow"` // 表头所在行号（0 起）
	Columns   map[string]int `json:"columns"`
	Order     []string       `json:"order"` // 规范化列名，按列号排序
}

// RequiredField 数据源要求解析的逻辑字段
// Logical 给出候选名，按顺序尝试，命中即止。
type RequiredField struct {
	Name    string
	Logical []string
	Mode    MatchMode
}

// IndentSheetOptions 台账（Indent 登记表）解析选项
type IndentSheetOptions struct {
	ProbeWindow      int
	HeaderSubstrings []string
	HeaderLevels     int // 表头层数，1 或 2
	RefField         []string
	VehicleField     []string
	DateField        []string
	QuantityField    []string
}

// GPSSheetOptions GPS 里程报表解析选项
type GPSSheetOptions struct {
	ProbeWindow      int
	HeaderSubstrings []string
	HeaderLevels     int
	VehicleField     []string
	DistanceField    []string
}

// MasterSheetOptions 车辆主表解析选项
type MasterSheetOptions struct {
	ProbeWindow      int
	HeaderSubstrings []string
	VehicleField     []string
}
