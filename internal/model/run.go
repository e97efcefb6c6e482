package model

import "time"

// SourceResult 单个数据源的处理结果
type SourceResult struct {
	Source      string        `json:"source"` // indent/gps/master/bills
	Filename    string        `json:"filename"`
	Status      string        `json:"status"` // parsed/skipped/error
	ParsedRows  int           `json:"parsedRows"`
	SkippedRows int           `json:"skippedRows"` // 无单号等被丢弃的行
	Errors      []string      `json:"errors,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// AuditReport 一次稽核运行的汇总报告
type AuditReport struct {
	RunID          string         `json:"runId"`
	CreatedAt      time.Time      `json:"createdAt"`
	Sources        []SourceResult `json:"sources"`
	IndentRecords  int            `json:"indentRecords"`
	BillEvidence   int            `json:"billEvidence"`
	MatchedRows    int            `json:"matchedRows"`
	BillOnlyRows   int            `json:"billOnlyRows"`
	IndentOnlyRows int            `json:"indentOnlyRows"`
	OwnerRows      int            `json:"ownerRows"`
	FraudRows      int            `json:"fraudRows"`
	ExceptionRows  int            `json:"exceptionRows"`
	MileageRows    int            `json:"mileageRows"`
	Duration       time.Duration  `json:"duration"`
}
