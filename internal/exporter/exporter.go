package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/praneshh19/fuel-audit-app/internal/store"
)

// Exporter 稽核结果导出器
// 将一次运行的全部结果导出为多 Sheet 工作簿，供线下核查与归档。
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(store *store.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportOptions 导出选项
type ExportOptions struct {
	RunID string
}

// 各 Sheet 名称
const (
	sheetRecon      = "对账结果"
	sheetFraud      = "舞弊信号"
	sheetExceptions = "车辆异常"
	sheetMileage    = "里程油耗"
	sheetEvidence   = "单据证据"
	sheetIndents    = "台账记录"
)

// Export 导出指定运行的稽核工作簿
func (e *Exporter) Export(opts ExportOptions, progress func(ProgressEvent)) (*excelize.File, error) {
	run, err := e.store.GetRun(opts.RunID)
	if err != nil {
		return nil, err
	}
	if run.Status != "done" {
		return nil, fmt.Errorf("audit run is not finished: %s", opts.RunID)
	}

	f := excelize.NewFile()

	reportProgress(progress, 5, "读取对账结果")
	if err := e.fillReconSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(progress, 30, "读取舞弊信号")
	if err := e.fillFraudSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(progress, 45, "读取车辆异常")
	if err := e.fillExceptionSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(progress, 60, "读取里程油耗")
	if err := e.fillMileageSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(progress, 75, "读取单据证据")
	if err := e.fillEvidenceSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	reportProgress(progress, 90, "读取台账记录")
	if err := e.fillIndentSheet(f, opts.RunID); err != nil {
		_ = f.Close()
		return nil, err
	}

	// excelize 默认的 Sheet1 在全部数据 Sheet 建好后删除
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetRecon); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	reportProgress(progress, 100, "导出完成")
	return f, nil
}

func newSheet(f *excelize.File, name string, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNo, sheet, err)
	}
	return nil
}

func (e *Exporter) fillReconSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetReconRows(runID, "")
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetRecon, []interface{}{
		"单号", "状态", "单据行", "单据来源", "车辆原文", "车辆键", "日期", "油量(升)", "台账行号",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetRecon, i+2, []interface{}{
			r.CanonicalID, string(r.Status), r.BillLine, r.BillSource,
			r.RawVehicle, r.VehicleKey, formatDate(r.IndentDate), floatOrEmpty(r.Quantity), r.IndentRowNo,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillFraudSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetFraudRows(runID)
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetFraud, []interface{}{
		"单号", "原因", "车辆原文", "车辆键", "日期", "台账行号", "出现次数",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetFraud, i+2, []interface{}{
			r.CanonicalID, string(r.Reason), r.RawVehicle, r.VehicleKey,
			formatDate(r.IndentDate), r.IndentRowNo, r.Occurrences,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillExceptionSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetExceptionRows(runID)
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetExceptions, []interface{}{
		"单号", "车辆原文", "车辆键", "置信度", "台账行号",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetExceptions, i+2, []interface{}{
			r.CanonicalID, r.RawVehicle, r.VehicleKey, r.Confidence, r.IndentRowNo,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillMileageSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetMileageRows(runID)
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetMileage, []interface{}{
		"车辆键", "里程(公里)", "油量(升)", "公里/升",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetMileage, i+2, []interface{}{
			r.VehicleKey, r.DistanceKM, floatOrEmpty(r.FuelQty), floatOrEmpty(r.KmPerLitre),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillEvidenceSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetBillEvidence(runID)
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetEvidence, []interface{}{
		"单号", "转写行原文", "行号", "来源文件",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetEvidence, i+2, []interface{}{
			r.CanonicalID, r.Line, r.LineNo, r.Source,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) fillIndentSheet(f *excelize.File, runID string) error {
	rows, err := e.store.GetIndentRecords(runID)
	if err != nil {
		return err
	}

	if err := newSheet(f, sheetIndents, []interface{}{
		"单号", "日期", "车辆原文", "车辆键", "油量(升)", "行号", "来源 Sheet",
	}); err != nil {
		return err
	}

	for i, r := range rows {
		if err := writeRow(f, sheetIndents, i+2, []interface{}{
			r.CanonicalID, formatDate(r.IndentDate), r.RawVehicle, r.VehicleKey,
			floatOrEmpty(r.Quantity), r.RowNo, r.SourceSheet,
		}); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
