package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query() []attendance.Record {
	records := make([]attendance.Record, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		records = append(records, *r)
	}
	return records
}

// CreateRecord holds the write lock across the existence check and the
// insert, so concurrent same-day check-ins cannot both land.
func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, r := range repo.db.table {
		if r.MemberID == rec.MemberID && core.SameDay(r.Date, rec.Date) {
			return attendance.Record{}, attendance.ErrDuplicateForDay
		}
	}
	rec.ID = uuid.New().String()
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id string) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[id]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) GetRecordForDay(ctx context.Context, memberID string, date time.Time) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.table {
		if rec.MemberID == memberID && core.SameDay(rec.Date, date) {
			return *rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterRecords(ctx context.Context, filter attendance.QueryFilter, ordering ...core.DBOrdering) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := repo.query()
	filtered := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if filter.MemberID != "" && rec.MemberID != filter.MemberID {
			continue
		}
		if !filter.Date.IsZero() && !core.SameDay(rec.Date, filter.Date) {
			continue
		}
		if !filter.DateFrom.IsZero() && rec.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && rec.Date.After(filter.DateTo) {
			continue
		}
		filtered = append(filtered, rec)
	}

	// (date desc, check_in_time desc)
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].CheckInTime.After(filtered[j].CheckInTime)
	})
	return filtered, nil
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	rec.MemberID = orig.MemberID
	rec.Date = orig.Date
	rec.CreatedAt = orig.CreatedAt
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return attendance.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
