package model

import "time"

// ReconStatus 对账结果状态
type ReconStatus string

const (
	StatusMatched           ReconStatus = "matched"             // 单据与台账双侧命中
	StatusBillWithoutIndent ReconStatus = "bill_without_indent" // 有单据无台账
	StatusIndentWithoutBill ReconStatus = "indent_without_bill" // 有台账无单据
	StatusOwnerException    ReconStatus = "owner_exception"     // 自有车辆豁免（覆盖前三种）
)

// FraudReason 疑似舞弊原因
type FraudReason string

const (
	ReasonDuplicateIndentUsage FraudReason = "duplicate_indent_usage" // 同一单号多次领油
)

// ReconciliationRow 单据与台账按规范化单号外连接后的一行结果
// 每行有且仅有一个状态；自有车辆在最终覆盖遍历中统一改写为 owner_exception。
type ReconciliationRow struct {
	CanonicalID string      `json:"canonicalId"`
	Status      ReconStatus `json:"status"`
	BillLine    string      `json:"billLine,omitempty"`   // 命中的单据文本行
	BillSource  string      `json:"billSource,omitempty"` // 单据来源文件
	RawVehicle  string      `json:"rawVehicle,omitempty"` // 台账侧车号
	VehicleKey  string      `json:"vehicleKey,omitempty"`
	IndentDate  *time.Time  `json:"indentDate,omitempty"`
	Quantity    *float64    `json:"quantity,omitempty"`
	IndentRowNo int         `json:"indentRowNo,omitempty"` // 台账源行号（0 表示无台账侧）
}

// FraudRow 舞弊信号行：同一单号被多条台账记录使用时，每次出现记一行
type FraudRow struct {
	CanonicalID string      `json:"canonicalId"`
	Reason      FraudReason `json:"reason"`
	RawVehicle  string      `json:"rawVehicle"`
	VehicleKey  string      `json:"vehicleKey"`
	IndentDate  *time.Time  `json:"indentDate,omitempty"`
	IndentRowNo int         `json:"indentRowNo"`
	Occurrences int         `json:"occurrences"` // 该单号总出现次数
}

// ExceptionRow 车辆异常行：台账车号未能在车辆主表中核验
type ExceptionRow struct {
	CanonicalID string `json:"canonicalId"`
	RawVehicle  string `json:"rawVehicle"`
	VehicleKey  string `json:"vehicleKey"`
	Confidence  int    `json:"confidence"` // 0-100
	IndentRowNo int    `json:"indentRowNo"`
}

// MileageRow 按车辆汇总的里程油耗行
// FuelQty 为 nil 表示该车无台账油量；KmPerLitre 在油量为 0 或缺失时为 nil。
type MileageRow struct {
	VehicleKey string   `json:"vehicleKey"`
	DistanceKM float64  `json:"distanceKm"`
	FuelQty    *float64 `json:"fuelQty,omitempty"`
	KmPerLitre *float64 `json:"kmPerLitre,omitempty"`
}
