package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/praneshh19/fuel-audit-app/internal/model"
)

const dateLayout = "2006-01-02"

func dateToNull(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func nullToDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// BatchInsertIndentRecords 批量插入台账记录
func (s *Store) BatchInsertIndentRecords(runID string, records []*model.IndentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO indent_records (
			run_id, canonical_id, indent_date, raw_vehicle, vehicle_key, quantity, row_no, source_sheet
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(runID, r.CanonicalID, dateToNull(r.IndentDate),
			r.RawVehicle, r.VehicleKey, r.Quantity, r.RowNo, r.SourceSheet)
		if err != nil {
			return fmt.Errorf("failed to insert indent record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetIndentRecords 取回一次运行的全部台账记录
func (s *Store) GetIndentRecords(runID string) ([]*model.IndentRecord, error) {
	rows, err := s.db.Query(`
		SELECT canonical_id, indent_date, raw_vehicle, vehicle_key, quantity, row_no, source_sheet
		FROM indent_records WHERE run_id = ? ORDER BY row_no
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query indent records: %w", err)
	}
	defer rows.Close()

	var records []*model.IndentRecord
	for rows.Next() {
		var r model.IndentRecord
		var date sql.NullString
		var qty sql.NullFloat64
		if err := rows.Scan(&r.CanonicalID, &date, &r.RawVehicle, &r.VehicleKey, &qty, &r.RowNo, &r.SourceSheet); err != nil {
			return nil, fmt.Errorf("failed to scan indent record: %w", err)
		}
		r.IndentDate = nullToDate(date)
		if qty.Valid {
			v := qty.Float64
			r.Quantity = &v
		}
		records = append(records, &r)
	}

	return records, rows.Err()
}
