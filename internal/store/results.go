package store

import (
	"database/sql"
	"fmt"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

// BatchInsertBillEvidence 批量插入单据证据
func (s *Store) BatchInsertBillEvidence(runID string, evidence []model.BillEvidence) error {
	if len(evidence) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bill_evidence (run_id, canonical_id, line, line_no, source)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range evidence {
		if _, err := stmt.Exec(runID, e.CanonicalID, e.Line, e.LineNo, e.Source); err != nil {
			return fmt.Errorf("failed to insert bill evidence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBillEvidence 取回一次运行的全部单据证据
func (s *Store) GetBillEvidence(runID string) ([]model.BillEvidence, error) {
	rows, err := s.db.Query(`
		SELECT canonical_id, line, line_no, source
		FROM bill_evidence WHERE run_id = ? ORDER BY line_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill evidence: %w", err)
	}
	defer rows.Close()

	var evidence []model.BillEvidence
	for rows.Next() {
		var e model.BillEvidence
		if err := rows.Scan(&e.CanonicalID, &e.Line, &e.LineNo, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan bill evidence: %w", err)
		}
		evidence = append(evidence, e)
	}
	return evidence, rows.Err()
}

// BatchInsertReconRows 批量插入对账结果行
func (s *Store) BatchInsertReconRows(runID string, results []model.ReconciliationRow) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO recon_rows (
			run_id, canonical_id, status, bill_line, bill_source,
			raw_vehicle, vehicle_key, indent_date, quantity, indent_row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.Exec(runID, r.CanonicalID, string(r.Status), r.BillLine, r.BillSource,
			r.RawVehicle, r.VehicleKey, dateToNull(r.IndentDate), r.Quantity, r.IndentRowNo)
		if err != nil {
			return fmt.Errorf("failed to insert recon row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetReconRows 取回对账结果行，可按状态过滤（status 为空取全部）
func (s *Store) GetReconRows(runID string, status string) ([]model.ReconciliationRow, error) {
	query := `
		SELECT canonical_id, status, bill_line, bill_source,
			raw_vehicle, vehicle_key, indent_date, quantity, indent_row_no
		FROM recon_rows WHERE run_id = ?`
	args := []interface{}{runID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recon rows: %w", err)
	}
	defer rows.Close()

	var results []model.ReconciliationRow
	for rows.Next() {
		var r model.ReconciliationRow
		var st string
		var date sql.NullString
		var qty sql.NullFloat64
		if err := rows.Scan(&r.CanonicalID, &st, &r.BillLine, &r.BillSource,
			&r.RawVehicle, &r.VehicleKey, &date, &qty, &r.IndentRowNo); err != nil {
			return nil, fmt.Errorf("failed to scan recon row: %w", err)
		}
		r.Status = model.ReconStatus(st)
		r.IndentDate = nullToDate(date)
		if qty.Valid {
			v := qty.Float64
			r.Quantity = &v
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// BatchInsertFraudRows 批量插入舞弊信号行
func (s *Store) BatchInsertFraudRows(runID string, frauds []model.FraudRow) error {
	if len(frauds) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO fraud_rows (
			run_id, canonical_id, reason, raw_vehicle, vehicle_key, indent_date, indent_row_no, occurrences
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range frauds {
		_, err := stmt.Exec(runID, f.CanonicalID, string(f.Reason), f.RawVehicle, f.VehicleKey,
			dateToNull(f.IndentDate), f.IndentRowNo, f.Occurrences)
		if err != nil {
			return fmt.Errorf("failed to insert fraud row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetFraudRows 取回舞弊信号行
func (s *Store) GetFraudRows(runID string) ([]model.FraudRow, error) {
	rows, err := s.db.Query(`
		SELECT canonical_id, reason, raw_vehicle, vehicle_key, indent_date, indent_row_no, occurrences
		FROM fraud_rows WHERE run_id = ? ORDER BY canonical_id, indent_row_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fraud rows: %w", err)
	}
	defer rows.Close()

	var frauds []model.FraudRow
	for rows.Next() {
		var f model.FraudRow
		var reason string
		var date sql.NullString
		if err := rows.Scan(&f.CanonicalID, &reason, &f.RawVehicle, &f.VehicleKey, &date, &f.IndentRowNo, &f.Occurrences); err != nil {
			return nil, fmt.Errorf("failed to scan fraud row: %w", err)
		}
		f.Reason = model.FraudReason(reason)
		f.IndentDate = nullToDate(date)
		frauds = append(frauds, f)
	}
	return frauds, rows.Err()
}

// BatchInsertExceptionRows 批量插入车辆异常行
func (s *Store) BatchInsertExceptionRows(runID string, exceptions []model.ExceptionRow) error {
	if len(exceptions) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO exception_rows (
			run_id, canonical_id, raw_vehicle, vehicle_key, confidence, indent_row_no
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range exceptions {
		_, err := stmt.Exec(runID, e.CanonicalID, e.RawVehicle, e.VehicleKey, e.Confidence, e.IndentRowNo)
		if err != nil {
			return fmt.Errorf("failed to insert exception row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExceptionRows 取回车辆异常行
func (s *Store) GetExceptionRows(runID string) ([]model.ExceptionRow, error) {
	rows, err := s.db.Query(`
		SELECT canonical_id, raw_vehicle, vehicle_key, confidence, indent_row_no
		FROM exception_rows WHERE run_id = ? ORDER BY indent_row_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query exception rows: %w", err)
	}
	defer rows.Close()

	var exceptions []model.ExceptionRow
	for rows.Next() {
		var e model.ExceptionRow
		if err := rows.Scan(&e.CanonicalID, &e.RawVehicle, &e.VehicleKey, &e.Confidence, &e.IndentRowNo); err != nil {
			return nil, fmt.Errorf("failed to scan exception row: %w", err)
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

// BatchInsertMileageRows 批量插入里程油耗行
func (s *Store) BatchInsertMileageRows(runID string, mileage []model.MileageRow) error {
	if len(mileage) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO mileage_rows (run_id, vehicle_key, distance_km, fuel_qty, km_per_litre)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range mileage {
		if _, err := stmt.Exec(runID, m.VehicleKey, m.DistanceKM, m.FuelQty, m.KmPerLitre); err != nil {
			return fmt.Errorf("failed to insert mileage row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetMileageRows 取回里程油耗行
func (s *Store) GetMileageRows(runID string) ([]model.MileageRow, error) {
	rows, err := s.db.Query(`
		SELECT vehicle_key, distance_km, fuel_qty, km_per_litre
		FROM mileage_rows WHERE run_id = ? ORDER BY vehicle_key
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mileage rows: %w", err)
	}
	defer rows.Close()

	var mileage []model.MileageRow
	for rows.Next() {
		var m model.MileageRow
		var fuel, ratio sql.NullFloat64
		if err := rows.Scan(&m.VehicleKey, &m.DistanceKM, &fuel, &ratio); err != nil {
			return nil, fmt.Errorf("failed to scan mileage row: %w", err)
		}
		if fuel.Valid {
			v := fuel.Float64
			m.FuelQty = &v
		}
		if ratio.Valid {
			v := ratio.Float64
			m.KmPerLitre = &v
		}
		mileage = append(mileage, m)
	}
	return mileage, rows.Err()
}
