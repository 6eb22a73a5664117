package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

var (
	// errors
	ErrNotFound        = errors.New("attendance record not found")
	ErrDuplicateForDay = errors.New("member already checked in for this day")
)

type (
	Repository interface {
		// CreateRecord inserts atomically with respect to the one-record-per
		// (member, day) constraint; a race loser gets ErrDuplicateForDay.
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		GetRecordByID(ctx context.Context, id string) (Record, error)
		GetRecordForDay(ctx context.Context, memberID string, date time.Time) (Record, error)
		// FilterRecords applies AND operation on available QueryFilter fields.
		FilterRecords(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		DeleteRecord(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CheckIn opens the member's record for the day of `at`. A second check-in on
// the same day fails with ErrDuplicateForDay and leaves the register unchanged.
func (svc *Service) CheckIn(ctx context.Context, memberID string, at time.Time) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		MemberID:    core.CleanString(memberID),
		Date:        core.DateOf(at),
		CheckInTime: at,
		Attended:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if rec.MemberID == "" {
		return Record{}, core.NewValidationError(errors.New("member is required"),
			core.FieldError{Field: "member_id", Error: "this field is required"})
	}
	return svc.repo.CreateRecord(ctx, rec)
}

// CheckOut stamps the exit time once. A second checkout is an idempotent
// no-op: the first time wins and corrections go through Update.
func (svc *Service) CheckOut(ctx context.Context, recordID string, at time.Time) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if rec.CheckedOut() {
		return rec, nil
	}
	rec.CheckOutTime = at
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

// SetManualAttendance upserts the member's record for the given day from the
// manual-control screen. An existing record only has its flag flipped; times
// are never altered. A missing record is created with a default entry time
// (noon) so it sorts sensibly among real check-ins.
func (svc *Service) SetManualAttendance(ctx context.Context, memberID string, date time.Time, attended bool) (Record, error) {
	day := core.DateOf(date)
	rec, err := svc.repo.GetRecordForDay(ctx, core.CleanString(memberID), day)
	if err == ErrNotFound {
		now := time.Now().UTC()
		rec = Record{
			MemberID:    core.CleanString(memberID),
			Date:        day,
			CheckInTime: day.Add(12 * time.Hour),
			Attended:    attended,
			Notes:       "manual",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return svc.repo.CreateRecord(ctx, rec)
	}
	if err != nil {
		return Record{}, err
	}

	rec.Attended = attended
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

// Filter returns matching records ordered by (date desc, check-in desc).
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Record, error) {
	filter.Clean()
	return svc.repo.FilterRecords(ctx, filter,
		core.DBOrdering{Field: "date"},
		core.DBOrdering{Field: "check_in_time"},
	)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

// Update overwrites record fields wholesale, same permissive policy as
// membership edits.
func (svc *Service) Update(ctx context.Context, recordID string, ur UpdateRecord) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, recordID)
	if err != nil {
		return Record{}, err
	}

	if ur.CheckInTime != nil {
		rec.CheckInTime = *ur.CheckInTime
	}
	if ur.CheckOutTime != nil {
		rec.CheckOutTime = *ur.CheckOutTime
	}
	if ur.Attended != nil {
		rec.Attended = *ur.Attended
	}
	if ur.Notes != nil {
		rec.Notes = *ur.Notes
	}
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteRecord(ctx, id)
}
