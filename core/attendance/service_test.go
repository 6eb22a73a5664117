package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
	"github.com/jherparva/TauroGym-sub000/core/attendance"
	dummydb "github.com/jherparva/TauroGym-sub000/storage/database/dummy"
	testutil "github.com/jherparva/TauroGym-sub000/tests"
)

func setup(t *testing.T) (*attendance.Service, attendance.Repository) {
	t.Helper()
	db := dummydb.NewDB()
	repo := dummydb.NewAttendanceRepository(db)
	return attendance.NewService(repo), repo
}

func TestService_CheckIn(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	morning := testutil.Date(2026, time.April, 6).Add(7 * time.Hour)

	rec, err := svc.CheckIn(ctx, "m1", morning)
	if err != nil {
		t.Fatalf("CheckIn() failed: %v", err)
	}
	if !rec.Attended || !core.SameDay(rec.Date, morning) || !rec.CheckInTime.Equal(morning) {
		t.Errorf("CheckIn() = %+v", rec)
	}
	if rec.CheckedOut() {
		t.Errorf("fresh record already checked out: %+v", rec)
	}

	// a second entry the same day is a conflict, even hours later
	if _, err = svc.CheckIn(ctx, "m1", morning.Add(9*time.Hour)); err != attendance.ErrDuplicateForDay {
		t.Errorf("CheckIn() error = %v, want ErrDuplicateForDay", err)
	}

	// the register still holds a single record for that day
	records, err := svc.Filter(ctx, attendance.QueryFilter{MemberID: "m1"})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Filter() returned %d records, want 1", len(records))
	}

	// next day is a fresh slot; other members are independent
	if _, err = svc.CheckIn(ctx, "m1", morning.AddDate(0, 0, 1)); err != nil {
		t.Errorf("CheckIn() next day failed: %v", err)
	}
	if _, err = svc.CheckIn(ctx, "m2", morning); err != nil {
		t.Errorf("CheckIn() other member failed: %v", err)
	}

	// empty member ID is invalid
	if _, err = svc.CheckIn(ctx, "", morning); err == nil {
		t.Error("CheckIn(\"\") did not fail")
	}
}

func TestService_CheckOut(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	in := testutil.Date(2026, time.April, 6).Add(7 * time.Hour)
	out := in.Add(2 * time.Hour)

	rec, err := svc.CheckIn(ctx, "m1", in)
	if err != nil {
		t.Fatalf("CheckIn() failed: %v", err)
	}

	rec, err = svc.CheckOut(ctx, rec.ID, out)
	if err != nil {
		t.Fatalf("CheckOut() failed: %v", err)
	}
	if !rec.CheckedOut() || !rec.CheckOutTime.Equal(out) {
		t.Errorf("CheckOut() = %+v", rec)
	}

	// checking out twice keeps the first exit time
	rec, err = svc.CheckOut(ctx, rec.ID, out.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("CheckOut() failed: %v", err)
	}
	if !rec.CheckOutTime.Equal(out) {
		t.Errorf("second CheckOut() moved the exit time: %v", rec.CheckOutTime)
	}

	if _, err = svc.CheckOut(ctx, "nope", out); err != attendance.ErrNotFound {
		t.Errorf("CheckOut() error = %v, want ErrNotFound", err)
	}
}

func TestService_SetManualAttendance(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	day := testutil.Date(2026, time.April, 6)

	// no record yet: one is created
	rec, err := svc.SetManualAttendance(ctx, "m1", day, true)
	if err != nil {
		t.Fatalf("SetManualAttendance() failed: %v", err)
	}
	if !rec.Attended || !core.SameDay(rec.Date, day) {
		t.Errorf("SetManualAttendance() = %+v", rec)
	}

	// existing record: only the flag flips
	got, err := svc.SetManualAttendance(ctx, "m1", day, false)
	if err != nil {
		t.Fatalf("SetManualAttendance() failed: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("SetManualAttendance() created a duplicate: %s vs %s", got.ID, rec.ID)
	}
	if got.Attended {
		t.Error("SetManualAttendance() did not flip the flag")
	}
	if !got.CheckInTime.Equal(rec.CheckInTime) {
		t.Errorf("SetManualAttendance() moved the entry time: %v", got.CheckInTime)
	}
}

func TestService_Filter(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	day1 := testutil.Date(2026, time.April, 6)
	day2 := testutil.Date(2026, time.April, 7)
	day3 := testutil.Date(2026, time.April, 8)

	r1 := testutil.CreateRecord(t, repo, "m1", day1.Add(7*time.Hour))
	r2 := testutil.CreateRecord(t, repo, "m2", day1.Add(9*time.Hour))
	r3 := testutil.CreateRecord(t, repo, "m1", day2.Add(8*time.Hour))
	r4 := testutil.CreateRecord(t, repo, "m1", day3.Add(6*time.Hour))

	tests := []struct {
		name   string
		filter attendance.QueryFilter
		want   []string // expected record IDs, in order
	}{
		{name: "all, newest first", filter: attendance.QueryFilter{}, want: []string{r4.ID, r3.ID, r2.ID, r1.ID}},
		{name: "by member", filter: attendance.QueryFilter{MemberID: "m2"}, want: []string{r2.ID}},
		{name: "by day", filter: attendance.QueryFilter{Date: day1.Add(13 * time.Hour)}, want: []string{r2.ID, r1.ID}},
		{name: "date range", filter: attendance.QueryFilter{DateFrom: day2, DateTo: day3}, want: []string{r4.ID, r3.ID}},
		{name: "member and range", filter: attendance.QueryFilter{MemberID: "m1", DateFrom: day2, DateTo: day2}, want: []string{r3.ID}},
		{name: "empty range", filter: attendance.QueryFilter{DateFrom: day3.AddDate(0, 0, 1)}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := svc.Filter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Filter() failed: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("Filter() returned %d records, want %d", len(records), len(tt.want))
			}
			for i, id := range tt.want {
				if records[i].ID != id {
					t.Errorf("Filter()[%d] = %s, want %s", i, records[i].ID, id)
				}
			}
		})
	}
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	rec := testutil.CreateRecord(t, repo, "m1", testutil.Date(2026, time.April, 6).Add(7*time.Hour))

	notes := "olvidó marcar salida"
	attended := false
	got, err := svc.Update(ctx, rec.ID, attendance.UpdateRecord{Notes: &notes, Attended: &attended})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if got.Notes != notes || got.Attended {
		t.Errorf("Update() = %+v", got)
	}
	if got.MemberID != rec.MemberID || !got.Date.Equal(rec.Date) {
		t.Errorf("Update() rewrote identity fields: %+v", got)
	}

	if err = svc.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err = svc.GetByID(ctx, rec.ID); err != attendance.ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err = svc.Delete(ctx, rec.ID); err != attendance.ErrNotFound {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
