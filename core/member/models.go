package member

import (
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

// PaymentState is derived from the ledger on every read; it is never stored.
type PaymentState string

const (
	StateNone          PaymentState = "none"    // no plan assigned
	StatePending       PaymentState = "pending" // nothing paid yet
	StatePartiallyPaid PaymentState = "partial" // an "abono" exists
	StateCompleted     PaymentState = "completed"
	StateExpired       PaymentState = "expired" // past the window, regardless of payment
)

var AllStates = []PaymentState{StateNone, StatePending, StatePartiallyPaid, StateCompleted, StateExpired}

// Member is the identity anchor for the ledger and the attendance register.
// It embeds at most one current membership; plan name and price are
// snapshotted at assignment time so catalog edits never corrupt the ledger.
type Member struct {
	ID               string    `json:"id"`
	NationalID       string    `json:"national_id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergency_contact"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at"` // UTC

	// current membership ledger
	PlanID     string     `json:"plan_id"` // empty: no plan
	PlanName   string     `json:"plan_name"`
	PlanPrice  core.Money `json:"plan_price"` // snapshot, not a catalog reference
	StartDate  time.Time  `json:"start_date"` // civil day
	EndDate    time.Time  `json:"end_date"`   // civil day, inclusive
	AmountPaid core.Money `json:"amount_paid"`
}

func (m Member) HasPlan() bool { return m.PlanID != "" }

// Snapshot is the derived view of a member's ledger at a point in time.
type Snapshot struct {
	BalanceDue     core.Money   `json:"balance_due"`
	PercentPaid    int          `json:"percent_paid"`
	PercentElapsed int          `json:"percent_elapsed"`
	DaysRemaining  int          `json:"days_remaining"`
	State          PaymentState `json:"state"`
}

// NewMember contains information needed to register a new Member.
type NewMember struct {
	NationalID       string `json:"national_id" validate:"required,cedula"`
	Name             string `json:"name" validate:"required"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
}

func (nm *NewMember) Validate(svc *Service) error {
	nm.NationalID = core.CleanString(nm.NationalID)
	nm.Name = core.CleanString(nm.Name)
	nm.Phone = core.CleanString(nm.Phone)
	nm.Email = core.CleanString(nm.Email, true /* lower */)

	if err := core.Validate.Struct(nm); err != nil {
		return core.TranslateError(err)
	}
	return svc.CheckUniqueness(nm.NationalID)
}

// UpdateMember defines what information may be provided to modify an existing Member.
type UpdateMember struct {
	NationalID       string `json:"national_id" validate:"omitempty,cedula"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email" validate:"omitempty,email"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	IsActive         *bool  `json:"is_active"`
}

func (um *UpdateMember) Validate(origMbr Member, svc *Service) error {
	nid := core.CleanString(um.NationalID)
	if nid != "" {
		um.NationalID = nid
	} else {
		um.NationalID = origMbr.NationalID
	}

	name := core.CleanString(um.Name)
	if name != "" {
		um.Name = name
	} else {
		um.Name = origMbr.Name
	}

	email := core.CleanString(um.Email, true /* lower */)
	if email != "" {
		um.Email = email
	} else {
		um.Email = origMbr.Email
	}

	if err := core.Validate.Struct(um); err != nil {
		return core.TranslateError(err)
	}
	return svc.CheckUniqueness(um.NationalID, origMbr)
}

// AssignPlan binds a member to a catalog plan (or a single-day pass) starting
// on StartDate, with an optional initial payment.
type AssignPlan struct {
	PlanID     string     `json:"plan_id" validate:"required"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
	AmountPaid core.Money `json:"amount_paid" validate:"gte=0"`
}

func (ap *AssignPlan) Validate() error {
	ap.PlanID = core.CleanString(ap.PlanID, true /* lower */)
	return core.TranslateError(core.Validate.Struct(ap))
}

// Abono is a partial payment applied toward the outstanding balance.
type Abono struct {
	Amount core.Money `json:"amount" validate:"gt=0"`
}

func (ab *Abono) Validate() error {
	return core.TranslateError(core.Validate.Struct(ab))
}

// EditMembership overwrites ledger fields wholesale, without re-derivation.
// It exists for corrections only; nil fields are left untouched. Changing the
// plan does not recompute EndDate unless one is supplied.
type EditMembership struct {
	PlanID     *string     `json:"plan_id"`
	PlanName   *string     `json:"plan_name"`
	PlanPrice  *core.Money `json:"plan_price" validate:"omitempty,gte=0"`
	StartDate  *time.Time  `json:"start_date"`
	EndDate    *time.Time  `json:"end_date"`
	AmountPaid *core.Money `json:"amount_paid" validate:"omitempty,gte=0"`
}

func (em *EditMembership) Validate() error {
	return core.TranslateError(core.Validate.Struct(em))
}

type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
