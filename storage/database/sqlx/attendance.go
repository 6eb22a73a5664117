package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
)

type attendanceRow struct {
	ID           string      `db:"id"`
	MemberID     string      `db:"member_id"`
	Date         time.Time   `db:"date"`
	CheckInTime  time.Time   `db:"check_in_time"`
	CheckOutTime null.Time   `db:"check_out_time"`
	Attended     bool        `db:"attended"`
	Notes        null.String `db:"notes"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func rowOfRecord(rec attendance.Record) attendanceRow {
	return attendanceRow{
		ID:           rec.ID,
		MemberID:     rec.MemberID,
		Date:         rec.Date,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: null.NewTime(rec.CheckOutTime, !rec.CheckOutTime.IsZero()),
		Attended:     rec.Attended,
		Notes:        null.NewString(rec.Notes, rec.Notes != ""),
		CreatedAt:    rec.CreatedAt.UTC(),
		UpdatedAt:    rec.UpdatedAt.UTC(),
	}
}

func (r attendanceRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:           r.ID,
		MemberID:     r.MemberID,
		Date:         r.Date,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime.Time,
		Attended:     r.Attended,
		Notes:        r.Notes.String,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type attendanceRepository struct {
	exec core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{exec: exec}
}

const attendanceColumns = "id, member_id, date, check_in_time, check_out_time, attended, notes, created_at, updated_at"

// CreateRecord relies on the attendance_member_id_date_key unique index for
// the one-record-per-day invariant; racing inserts lose cleanly here instead
// of duplicating rows.
func (repo attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = uuid.New().String()
	r := rowOfRecord(rec)
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO attendance (`+attendanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.MemberID, r.Date, r.CheckInTime, r.CheckOutTime, r.Attended, r.Notes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "attendance_member_id_date_key") {
			return attendance.Record{}, attendance.ErrDuplicateForDay
		}
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	return rec, nil
}

func (repo attendanceRepository) GetRecordByID(ctx context.Context, id string) (attendance.Record, error) {
	var r attendanceRow
	err := repo.exec.GetContext(ctx, &r, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id)
	if err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance record by ID")
	}
	return r.toRecord(), nil
}

func (repo attendanceRepository) GetRecordForDay(ctx context.Context, memberID string, date time.Time) (attendance.Record, error) {
	var r attendanceRow
	err := repo.exec.GetContext(ctx, &r,
		`SELECT `+attendanceColumns+` FROM attendance WHERE member_id = $1 AND date = $2`, memberID, date)
	if err != nil {
		return attendance.Record{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance record for day")
	}
	return r.toRecord(), nil
}

func (repo attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter, ordering ...core.DBOrdering) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.MemberID != "" {
		conds = append(conds, "member_id = "+arg(filter.MemberID))
	}
	if !filter.Date.IsZero() {
		conds = append(conds, "date = "+arg(filter.Date))
	}
	if !filter.DateFrom.IsZero() {
		conds = append(conds, "date >= "+arg(filter.DateFrom))
	}
	if !filter.DateTo.IsZero() {
		conds = append(conds, "date <= "+arg(filter.DateTo))
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "date"}, {Field: "check_in_time"}}
	}
	orderBy := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderBy = append(orderBy, ord.String())
	}
	query += ` ORDER BY ` + strings.Join(orderBy, ", ")

	var rows []attendanceRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance records")
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

func (repo attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r := rowOfRecord(rec)
	res, err := repo.exec.ExecContext(ctx,
		`UPDATE attendance
		SET check_in_time = $2, check_out_time = $3, attended = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		r.ID, r.CheckInTime, r.CheckOutTime, r.Attended, r.Notes, r.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "updating attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.Record{}, attendance.ErrNotFound
	}
	return repo.GetRecordByID(ctx, rec.ID)
}

func (repo attendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.ErrNotFound
	}
	return nil
}
