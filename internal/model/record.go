package model

import "time"

// IndentRecord 油料领用单（Indent）台账记录
// 由 ERP 导出的台账行经字段抽取后得到；CanonicalID 为空的行属于无效行，
// 在进入对账引擎前即被丢弃，不参与任何统计。
type IndentRecord struct {
	CanonicalID string     `json:"canonicalId"`          // 规范化单号，如 IND-4532
	IndentDate  *time.Time `json:"indentDate,omitempty"` // 开单日期（解析失败为 nil）
	RawVehicle  string     `json:"rawVehicle"`           // 台账原始车号文本
	VehicleKey  string     `json:"vehicleKey"`           // 规范化车辆键
	Quantity    *float64   `json:"quantity,omitempty"`   // 油量（升，解析失败为 nil）
	RowNo       int        `json:"rowNo"`                // 源表行号（1 起）
	SourceSheet string     `json:"sourceSheet"`
}

// BillEvidence 单据证据：一条 OCR/录入文本及从中提取的规范化单号
// 同一单号仅保留首次出现的证据行。
type BillEvidence struct {
	CanonicalID string `json:"canonicalId"`
	Line        string `json:"line"`    // 原始文本行
	LineNo      int    `json:"lineNo"`  // 在汇总文本中的行号（1 起）
	Source      string `json:"source"`  // 来源文件名
}

// GPSReading GPS 里程报表中的一条里程读数
type GPSReading struct {
	RawVehicle string  `json:"rawVehicle"`
	VehicleKey string  `json:"vehicleKey"`
	DistanceKM float64 `json:"distanceKm"`
	RowNo      int     `json:"rowNo"`
}

// FuelReading 按车辆的油量读数（来自台账）
type FuelReading struct {
	VehicleKey string  `json:"vehicleKey"`
	Quantity   float64 `json:"quantity"`
}
