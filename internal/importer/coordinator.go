package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/praneshh19/fuel-audit-app/internal/config"
	"github.com/praneshh19/fuel-audit-app/internal/model"
	"github.com/praneshh19/fuel-audit-app/internal/parser"
	"github.com/praneshh19/fuel-audit-app/internal/recon"
	"github.com/praneshh19/fuel-audit-app/internal/store"
)

// Coordinator 稽核运行协调器
// 串行执行一次完整稽核：三张表解析 → 单据证据提取 → 对账 → 里程汇总 → 落库。
type Coordinator struct {
	store *store.Store
	cfg   config.AuditConfig
}

// NewCoordinator 创建稽核协调器
func NewCoordinator(st *store.Store, cfg config.AuditConfig) *Coordinator {
	return &Coordinator{store: st, cfg: cfg}
}

// AnalyzeOptions 稽核选项
type AnalyzeOptions struct {
	IndentPath string   // 台账 xlsx
	GPSPath    string   // GPS 里程 xlsx
	MasterPath string   // 车辆主表 xlsx
	BillPaths  []string // OCR 转写文本文件，按上传顺序
	BillsText  string   // 直接粘贴的转写文本（可选，排在文件之后）
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"` // start/source_start/source_done/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Analyze 执行稽核，返回进度通道
func (c *Coordinator) Analyze(opts AnalyzeOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doAnalyze(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doAnalyze(opts AnalyzeOptions, ch chan ProgressEvent) {
	startTime := time.Now()
	runID := uuid.NewString()

	report := &model.AuditReport{
		RunID:     runID,
		CreatedAt: startTime,
	}

	c.send(ch, ProgressEvent{
		Type:      "start",
		Message:   "开始稽核",
		Data:      map[string]string{"runId": runID},
		Timestamp: time.Now(),
	})

	billNames := make([]string, 0, len(opts.BillPaths))
	for _, p := range opts.BillPaths {
		billNames = append(billNames, filepath.Base(p))
	}
	if err := c.store.CreateRun(runID,
		filepath.Base(opts.IndentPath), filepath.Base(opts.GPSPath),
		filepath.Base(opts.MasterPath), strings.Join(billNames, ";")); err != nil {
		c.fail(ch, runID, fmt.Sprintf("登记运行失败: %v", err))
		return
	}

	extractor, err := parser.NewIdentifierExtractor(
		parser.PatternProfile(c.cfg.IdentifierProfile),
		parser.CanonicalFormat(c.cfg.IdentifierFormat))
	if err != nil {
		c.fail(ch, runID, fmt.Sprintf("单号模式配置无效: %v", err))
		return
	}

	// 台账
	indents, err := c.parseIndent(opts.IndentPath, extractor, report, ch)
	if err != nil {
		c.fail(ch, runID, err.Error())
		return
	}

	// GPS 里程
	gpsReadings, err := c.parseGPS(opts.GPSPath, report, ch)
	if err != nil {
		c.fail(ch, runID, err.Error())
		return
	}

	// 车辆主表
	master, err := c.parseMaster(opts.MasterPath, report, ch)
	if err != nil {
		c.fail(ch, runID, err.Error())
		return
	}

	// 单据证据
	evidence, err := c.buildEvidence(opts, extractor, report, ch)
	if err != nil {
		c.fail(ch, runID, err.Error())
		return
	}

	// 对账与汇总
	engine := recon.NewEngine(recon.Options{
		OwnerVehicles:  c.cfg.OwnerVehicles,
		Threshold:      c.cfg.VehicleMatchThreshold,
		UnmatchedScore: c.cfg.UnmatchedVehicleScore,
	})

	reconRows := engine.Reconcile(evidence, indents)
	fraudRows := engine.DetectDuplicates(indents)
	exceptionRows := engine.DetectVehicleExceptions(indents, master)
	mileageRows := recon.AggregateMileage(gpsReadings, recon.FuelReadingsFromIndents(indents))

	report.IndentRecords = len(indents)
	report.BillEvidence = len(evidence)
	for _, r := range reconRows {
		switch r.Status {
		case model.StatusMatched:
			report.MatchedRows++
		case model.StatusBillWithoutIndent:
			report.BillOnlyRows++
		case model.StatusIndentWithoutBill:
			report.IndentOnlyRows++
		case model.StatusOwnerException:
			report.OwnerRows++
		}
	}
	report.FraudRows = len(fraudRows)
	report.ExceptionRows = len(exceptionRows)
	report.MileageRows = len(mileageRows)

	// 落库
	if err := c.persist(runID, indents, evidence, reconRows, fraudRows, exceptionRows, mileageRows); err != nil {
		c.fail(ch, runID, fmt.Sprintf("结果落库失败: %v", err))
		return
	}

	report.Duration = time.Since(startTime)
	if err := c.store.FinishRun(runID, report); err != nil {
		c.fail(ch, runID, fmt.Sprintf("完成运行失败: %v", err))
		return
	}
	_ = c.store.SetLastRunID(runID)

	c.send(ch, ProgressEvent{
		Type:      "done",
		Message:   "稽核完成",
		Data:      report,
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) parseIndent(path string, extractor *parser.IdentifierExtractor,
	report *model.AuditReport, ch chan ProgressEvent) ([]*model.IndentRecord, error) {

	sourceStart := time.Now()
	c.sourceStart(ch, "indent", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开台账文件失败: %w", err)
	}
	defer f.Close()

	sheet := firstSheet(f)
	opts := parser.DefaultIndentSheetOptions()
	opts.ProbeWindow = c.cfg.HeaderProbeWindow
	if len(c.cfg.Indent.HeaderSubstrings) > 0 {
		opts.HeaderSubstrings = c.cfg.Indent.HeaderSubstrings
	}
	if c.cfg.Indent.HeaderLevels > 0 {
		opts.HeaderLevels = c.cfg.Indent.HeaderLevels
	}

	records, skipped, err := parser.NewIndentParser(f, extractor, opts).ParseSheet(sheet)
	if err != nil {
		return nil, err
	}

	c.recordSource(report, ch, model.SourceResult{
		Source:      "indent",
		Filename:    filepath.Base(path),
		Status:      "parsed",
		ParsedRows:  len(records),
		SkippedRows: skipped,
		Duration:    time.Since(sourceStart),
	})
	return records, nil
}

func (c *Coordinator) parseGPS(path string, report *model.AuditReport, ch chan ProgressEvent) ([]model.GPSReading, error) {
	sourceStart := time.Now()
	c.sourceStart(ch, "gps", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开 GPS 报表失败: %w", err)
	}
	defer f.Close()

	sheet := firstSheet(f)
	opts := parser.DefaultGPSSheetOptions()
	opts.ProbeWindow = c.cfg.HeaderProbeWindow
	if len(c.cfg.GPS.HeaderSubstrings) > 0 {
		opts.HeaderSubstrings = c.cfg.GPS.HeaderSubstrings
	}
	if c.cfg.GPS.HeaderLevels > 0 {
		opts.HeaderLevels = c.cfg.GPS.HeaderLevels
	}

	readings, skipped, err := parser.NewGPSParser(f, opts).ParseSheet(sheet)
	if err != nil {
		return nil, err
	}

	c.recordSource(report, ch, model.SourceResult{
		Source:      "gps",
		Filename:    filepath.Base(path),
		Status:      "parsed",
		ParsedRows:  len(readings),
		SkippedRows: skipped,
		Duration:    time.Since(sourceStart),
	})
	return readings, nil
}

func (c *Coordinator) parseMaster(path string, report *model.AuditReport, ch chan ProgressEvent) (map[string]struct{}, error) {
	sourceStart := time.Now()
	c.sourceStart(ch, "master", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开车辆主表失败: %w", err)
	}
	defer f.Close()

	sheet := firstSheet(f)
	opts := parser.DefaultMasterSheetOptions()
	opts.ProbeWindow = c.cfg.HeaderProbeWindow
	if len(c.cfg.Master.HeaderSubstrings) > 0 {
		opts.HeaderSubstrings = c.cfg.Master.HeaderSubstrings
	}

	master, err := parser.NewMasterParser(f, opts).ParseSheet(sheet)
	if err != nil {
		return nil, err
	}

	c.recordSource(report, ch, model.SourceResult{
		Source:     "master",
		Filename:   filepath.Base(path),
		Status:     "parsed",
		ParsedRows: len(master),
		Duration:   time.Since(sourceStart),
	})
	return master, nil
}

// buildEvidence 汇总全部转写文本为单一有序行序列后提取单据证据
// 去重按首次出现生效，因此文件按上传顺序拼接以保证结果确定。
func (c *Coordinator) buildEvidence(opts AnalyzeOptions, extractor *parser.IdentifierExtractor,
	report *model.AuditReport, ch chan ProgressEvent) ([]model.BillEvidence, error) {

	sourceStart := time.Now()

	var lines []parser.TextLine
	no := 0
	for _, path := range opts.BillPaths {
		c.sourceStart(ch, "bills", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取单据转写失败: %w", err)
		}
		for _, text := range splitLines(string(data)) {
			no++
			lines = append(lines, parser.TextLine{Source: filepath.Base(path), No: no, Text: text})
		}
	}
	if strings.TrimSpace(opts.BillsText) != "" {
		for _, text := range splitLines(opts.BillsText) {
			no++
			lines = append(lines, parser.TextLine{Source: "inline", No: no, Text: text})
		}
	}

	evidence := extractor.BuildBillEvidence(lines)

	c.recordSource(report, ch, model.SourceResult{
		Source:      "bills",
		Filename:    strings.Join(billFilenames(opts), ";"),
		Status:      "parsed",
		ParsedRows:  len(evidence),
		SkippedRows: len(lines) - len(evidence),
		Duration:    time.Since(sourceStart),
	})
	return evidence, nil
}

func (c *Coordinator) persist(runID string, indents []*model.IndentRecord, evidence []model.BillEvidence,
	reconRows []model.ReconciliationRow, fraudRows []model.FraudRow,
	exceptionRows []model.ExceptionRow, mileageRows []model.MileageRow) error {

	if err := c.store.BatchInsertIndentRecords(runID, indents); err != nil {
		return err
	}
	if err := c.store.BatchInsertBillEvidence(runID, evidence); err != nil {
		return err
	}
	if err := c.store.BatchInsertReconRows(runID, reconRows); err != nil {
		return err
	}
	if err := c.store.BatchInsertFraudRows(runID, fraudRows); err != nil {
		return err
	}
	if err := c.store.BatchInsertExceptionRows(runID, exceptionRows); err != nil {
		return err
	}
	return c.store.BatchInsertMileageRows(runID, mileageRows)
}

func (c *Coordinator) sourceStart(ch chan ProgressEvent, source, path string) {
	c.send(ch, ProgressEvent{
		Type:    "source_start",
		Message: fmt.Sprintf("正在解析数据源: %s (%s)", source, filepath.Base(path)),
		Data: map[string]string{
			"source":   source,
			"filename": filepath.Base(path),
		},
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) recordSource(report *model.AuditReport, ch chan ProgressEvent, result model.SourceResult) {
	report.Sources = append(report.Sources, result)
	c.send(ch, ProgressEvent{
		Type:    "source_done",
		Message: fmt.Sprintf("数据源 %s 解析完成: %d 行有效, %d 行丢弃", result.Source, result.ParsedRows, result.SkippedRows),
		Data:    result,
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) fail(ch chan ProgressEvent, runID, message string) {
	_ = c.store.FailRun(runID, message)
	c.send(ch, ProgressEvent{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now(),
	})
}

// send 非阻塞发送进度事件
func (c *Coordinator) send(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

func firstSheet(f *excelize.File) string {
	list := f.GetSheetList()
	if len(list) == 0 {
		return "Sheet1"
	}
	return list[0]
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func billFilenames(opts AnalyzeOptions) []string {
	names := make([]string, 0, len(opts.BillPaths)+1)
	for _, p := range opts.BillPaths {
		names = append(names, filepath.Base(p))
	}
	if strings.TrimSpace(opts.BillsText) != "" {
		names = append(names, "inline")
	}
	return names
}
