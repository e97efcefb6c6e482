package recon

import (
	"github.com/praneshh19/fuel-audit-app/internal/model"
	"github.com/praneshh19/fuel-audit-app/internal/parser"
)

// Engine 对账引擎
// 单次运行内无共享可变状态：自有车辆豁免集与置信度阈值均为只读配置。
type Engine struct {
	ownerVehicles  map[string]struct{}
	threshold      int
	unmatchedScore int
}

// Options 引擎配置
type Options struct {
	OwnerVehicles  []string // 自有车辆（豁免舞弊标记），任意书写格式
	Threshold      int      // 车辆核验置信度阈值，默认 90
	UnmatchedScore int      // 未命中主表的置信度，默认 50
}

// DefaultThreshold 车辆核验默认阈值
const DefaultThreshold = 90

// NewEngine 创建对账引擎
func NewEngine(opts Options) *Engine {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	owners := make(map[string]struct{}, len(opts.OwnerVehicles))
	for _, v := range opts.OwnerVehicles {
		key := parser.NormalizeVehicle(v)
		if key != "" {
			owners[key] = struct{}{}
		}
	}

	return &Engine{
		ownerVehicles:  owners,
		threshold:      opts.Threshold,
		unmatchedScore: opts.UnmatchedScore,
	}
}

// Reconcile 单据证据与台账记录按规范化单号做全外连接并分类
// 双侧命中为 matched；仅单据侧为 bill_without_indent；仅台账侧为
// indent_without_bill。最后整体覆盖一遍：车辆键属于自有车辆豁免集的行
// 一律改写为 owner_exception——自有车辆另行审计，不参与舞弊标记。
func (e *Engine) Reconcile(bills []model.BillEvidence, indents []*model.IndentRecord) []model.ReconciliationRow {
	byID := make(map[string][]*model.IndentRecord, len(indents))
	for _, rec := range indents {
		byID[rec.CanonicalID] = append(byID[rec.CanonicalID], rec)
	}

	var rows []model.ReconciliationRow
	billIDs := make(map[string]struct{}, len(bills))

	// 单据侧顺序优先：命中行与无台账行按证据序输出
	for _, bill := range bills {
		billIDs[bill.CanonicalID] = struct{}{}

		matched, ok := byID[bill.CanonicalID]
		if !ok {
			rows = append(rows, model.ReconciliationRow{
				CanonicalID: bill.CanonicalID,
				Status:      model.StatusBillWithoutIndent,
				BillLine:    bill.Line,
				BillSource:  bill.Source,
			})
			continue
		}

		// 同号多条台账时逐条配对（外连接语义）
		for _, rec := range matched {
			rows = append(rows, model.ReconciliationRow{
				CanonicalID: bill.CanonicalID,
				Status:      model.StatusMatched,
				BillLine:    bill.Line,
				BillSource:  bill.Source,
				RawVehicle:  rec.RawVehicle,
				VehicleKey:  rec.VehicleKey,
				IndentDate:  rec.IndentDate,
				Quantity:    rec.Quantity,
				IndentRowNo: rec.RowNo,
			})
		}
	}

	// 无单据的台账记录按台账序补齐
	for _, rec := range indents {
		if _, ok := billIDs[rec.CanonicalID]; ok {
			continue
		}
		rows = append(rows, model.ReconciliationRow{
			CanonicalID: rec.CanonicalID,
			Status:      model.StatusIndentWithoutBill,
			RawVehicle:  rec.RawVehicle,
			VehicleKey:  rec.VehicleKey,
			IndentDate:  rec.IndentDate,
			Quantity:    rec.Quantity,
			IndentRowNo: rec.RowNo,
		})
	}

	// 自有车辆最终覆盖，优先级高于任何连接结果
	for i := range rows {
		if rows[i].VehicleKey == "" {
			continue
		}
		if _, owner := e.ownerVehicles[rows[i].VehicleKey]; owner {
			rows[i].Status = model.StatusOwnerException
		}
	}

	return rows
}

// DetectDuplicates 检出同一单号被多条台账记录使用的情况
// 一张单据应当只支撑一次加油，这是首要舞弊信号；同号的每次出现各记一行。
// TODO: 与车队业务方确认分次加油（同单多笔部分加注）是否应豁免。
func (e *Engine) DetectDuplicates(indents []*model.IndentRecord) []model.FraudRow {
	counts := make(map[string]int, len(indents))
	for _, rec := range indents {
		counts[rec.CanonicalID]++
	}

	var frauds []model.FraudRow
	for _, rec := range indents {
		n := counts[rec.CanonicalID]
		if n <= 1 {
			continue
		}
		frauds = append(frauds, model.FraudRow{
			CanonicalID: rec.CanonicalID,
			Reason:      model.ReasonDuplicateIndentUsage,
			RawVehicle:  rec.RawVehicle,
			VehicleKey:  rec.VehicleKey,
			IndentDate:  rec.IndentDate,
			IndentRowNo: rec.RowNo,
			Occurrences: n,
		})
	}

	return frauds
}

// DetectVehicleExceptions 检出车号未能核验的台账记录
// 置信度低于阈值即记异常；与舞弊行互不排斥，同一记录可同时出现在两表。
func (e *Engine) DetectVehicleExceptions(indents []*model.IndentRecord, master map[string]struct{}) []model.ExceptionRow {
	var exceptions []model.ExceptionRow

	for _, rec := range indents {
		key, confidence := parser.MatchVehicle(rec.RawVehicle, master, e.unmatchedScore)
		if confidence >= e.threshold {
			continue
		}
		exceptions = append(exceptions, model.ExceptionRow{
			CanonicalID: rec.CanonicalID,
			RawVehicle:  rec.RawVehicle,
			VehicleKey:  key,
			Confidence:  confidence,
			IndentRowNo: rec.RowNo,
		})
	}

	return exceptions
}
