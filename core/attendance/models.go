package attendance

import (
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

// Record is a single member's entry for one civil day. At most one Record
// exists per (MemberID, Date); storage enforces the constraint atomically.
type Record struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"member_id"`
	Date         time.Time `json:"date"` // civil day
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"` // zero: still inside
	Attended     bool      `json:"attended"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (r Record) CheckedOut() bool { return !r.CheckOutTime.IsZero() }

// UpdateRecord overwrites record fields wholesale, for manual corrections.
// Nil fields are left untouched.
type UpdateRecord struct {
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Attended     *bool      `json:"attended"`
	Notes        *string    `json:"notes"`
}

type QueryFilter struct {
	MemberID string    `query:"member_id"`
	Date     time.Time `query:"date"`
	DateFrom time.Time `query:"date_from"`
	DateTo   time.Time `query:"date_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.MemberID == "" && qf.Date.IsZero() && qf.DateFrom.IsZero() && qf.DateTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.MemberID = core.CleanString(qf.MemberID)
	if !qf.Date.IsZero() {
		qf.Date = core.DateOf(qf.Date)
	}
	if !qf.DateFrom.IsZero() {
		qf.DateFrom = core.DateOf(qf.DateFrom)
	}
	if !qf.DateTo.IsZero() {
		qf.DateTo = core.DateOf(qf.DateTo)
	}
}
