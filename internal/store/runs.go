package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// RunSummary 稽核运行摘要
type RunSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Status         string    `json:"status"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	IndentFile     string    `json:"indentFile"`
	GPSFile        string    `json:"gpsFile"`
	MasterFile     string    `json:"masterFile"`
	BillsFiles     string    `json:"billsFiles"`
	IndentRecords  int       `json:"indentRecords"`
	BillEvidence   int       `json:"billEvidence"`
	MatchedRows    int       `json:"matchedRows"`
	BillOnlyRows   int       `json:"billOnlyRows"`
	IndentOnlyRows int       `json:"indentOnlyRows"`
	OwnerRows      int       `json:"ownerRows"`
	FraudRows      int       `json:"fraudRows"`
	ExceptionRows  int       `json:"exceptionRows"`
	MileageRows    int       `json:"mileageRows"`
	DurationMS     int64     `json:"durationMs"`
}

// CreateRun 登记一次稽核运行
func (s *Store) CreateRun(id, indentFile, gpsFile, masterFile, billsFiles string) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_runs (id, status, indent_file, gps_file, master_file, bills_files)
		VALUES (?, 'processing', ?, ?, ?, ?)
	`, id, indentFile, gpsFile, masterFile, billsFiles)
	if err != nil {
		return fmt.Errorf("failed to create audit run: %w", err)
	}
	return nil
}

// FinishRun 以完成状态落库运行报告
func (s *Store) FinishRun(id string, report *model.AuditReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE audit_runs SET
			status = 'done',
			indent_records = ?,
			bill_evidence = ?,
			matched_rows = ?,
			bill_only_rows = ?,
			indent_only_rows = ?,
			owner_rows = ?,
			fraud_rows = ?,
			exception_rows = ?,
			mileage_rows = ?,
			duration_ms = ?,
			report_json = ?
		WHERE id = ?
	`, report.IndentRecords, report.BillEvidence,
		report.MatchedRows, report.BillOnlyRows, report.IndentOnlyRows, report.OwnerRows,
		report.FraudRows, report.ExceptionRows, report.MileageRows,
		report.Duration.Milliseconds(), string(reportJSON), id)
	if err != nil {
		return fmt.Errorf("failed to finish audit run: %w", err)
	}
	return nil
}

// FailRun 以失败状态落库
func (s *Store) FailRun(id, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE audit_runs SET status = 'error', error_message = ? WHERE id = ?
	`, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark audit run as error: %w", err)
	}
	return nil
}

// ListRuns 按时间倒序列出稽核运行
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, status, COALESCE(error_message, ''),
			COALESCE(indent_file, ''), COALESCE(gps_file, ''), COALESCE(master_file, ''), COALESCE(bills_files, ''),
			indent_records, bill_evidence, matched_rows, bill_only_rows, indent_only_rows,
			owner_rows, fraud_rows, exception_rows, mileage_rows, duration_ms
		FROM audit_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Status, &r.ErrorMessage,
			&r.IndentFile, &r.GPSFile, &r.MasterFile, &r.BillsFiles,
			&r.IndentRecords, &r.BillEvidence, &r.MatchedRows, &r.BillOnlyRows, &r.IndentOnlyRows,
			&r.OwnerRows, &r.FraudRows, &r.ExceptionRows, &r.MileageRows, &r.DurationMS); err != nil {
			return nil, fmt.Errorf("failed to scan audit run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRun 查询单次运行摘要
func (s *Store) GetRun(id string) (*RunSummary, error) {
	var r RunSummary
	err := s.db.QueryRow(`
		SELECT id, created_at, status, COALESCE(error_message, ''),
			COALESCE(indent_file, ''), COALESCE(gps_file, ''), COALESCE(master_file, ''), COALESCE(bills_files, ''),
			indent_records, bill_evidence, matched_rows, bill_only_rows, indent_only_rows,
			owner_rows, fraud_rows, exception_rows, mileage_rows, duration_ms
		FROM audit_runs WHERE id = ?
	`, id).Scan(&r.ID, &r.CreatedAt, &r.Status, &r.ErrorMessage,
		&r.IndentFile, &r.GPSFile, &r.MasterFile, &r.BillsFiles,
		&r.IndentRecords, &r.BillEvidence, &r.MatchedRows, &r.BillOnlyRows, &r.IndentOnlyRows,
		&r.OwnerRows, &r.FraudRows, &r.ExceptionRows, &r.MileageRows, &r.DurationMS)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get audit run: %w", err)
	}
	return &r, nil
}

// GetRunReport 取回完整运行报告（含各数据源明细）
func (s *Store) GetRunReport(id string) (*model.AuditReport, error) {
	var reportJSON sql.NullString
	err := s.db.QueryRow(`SELECT report_json FROM audit_runs WHERE id = ?`, id).Scan(&reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}
	if !reportJSON.Valid || reportJSON.String == "" {
		return nil, fmt.Errorf("audit run has no report: %s", id)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON.String), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
	}
	return &report, nil
}
