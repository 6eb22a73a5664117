package plan

import (
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

// DurationUnit is the unit a plan's duration is expressed in.
type DurationUnit string

const (
	UnitDay       DurationUnit = "day"
	UnitWeek      DurationUnit = "week"
	UnitFortnight DurationUnit = "fortnight" // "quincena": 15 days by gym convention
	UnitMonth     DurationUnit = "month"
)

var AllUnits = []DurationUnit{UnitDay, UnitWeek, UnitFortnight, UnitMonth}

// SingleDay is the pseudo plan ID accepted by membership assignment for
// walk-in day passes; it never exists in the catalog.
const SingleDay = "single-day"

type Plan struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Price         core.Money   `json:"price"`
	DurationValue int          `json:"duration_value"`
	DurationUnit  DurationUnit `json:"duration_unit"`
	Benefits      []string     `json:"benefits"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"` // UTC
	UpdatedAt     time.Time    `json:"updated_at"` // UTC
}

// EndDate computes the day a membership starting on `start` runs out.
// Months follow the calendar; the other units are fixed day counts.
func (p Plan) EndDate(start time.Time) time.Time {
	start = core.DateOf(start)
	switch p.DurationUnit {
	case UnitWeek:
		return start.AddDate(0, 0, 7*p.DurationValue)
	case UnitFortnight:
		return start.AddDate(0, 0, 15*p.DurationValue)
	case UnitMonth:
		return start.AddDate(0, p.DurationValue, 0)
	default: // day
		return start.AddDate(0, 0, p.DurationValue)
	}
}

// DayPass returns the synthetic plan used for single-day assignments.
// It is priced at whatever the member pays and is fully paid on creation.
func DayPass(price core.Money) Plan {
	return Plan{
		ID:            SingleDay,
		Name:          "Día",
		Price:         price,
		DurationValue: 1,
		DurationUnit:  UnitDay,
		IsActive:      true,
	}
}

// NewPlan contains information needed to create a new Plan.
type NewPlan struct {
	Name          string       `json:"name" validate:"required"`
	Price         core.Money   `json:"price" validate:"gte=0"`
	DurationValue int          `json:"duration_value" validate:"gt=0"`
	DurationUnit  DurationUnit `json:"duration_unit" validate:"required,durationunit"`
	Benefits      []string     `json:"benefits"`
}

func (np *NewPlan) Validate() error {
	np.Name = core.CleanString(np.Name)
	for i, b := range np.Benefits {
		np.Benefits[i] = core.CleanString(b)
	}
	return core.TranslateError(core.Validate.Struct(np))
}

// UpdatePlan defines what information may be provided to modify an existing Plan.
// Catalog edits never rewrite the price already snapshotted on members.
type UpdatePlan struct {
	Name          string       `json:"name"`
	Price         *core.Money  `json:"price" validate:"omitempty,gte=0"`
	DurationValue *int         `json:"duration_value" validate:"omitempty,gt=0"`
	DurationUnit  DurationUnit `json:"duration_unit" validate:"omitempty,durationunit"`
	Benefits      []string     `json:"benefits"`
	IsActive      *bool        `json:"is_active"`
}

func (up *UpdatePlan) Validate(orig Plan) error {
	name := core.CleanString(up.Name)
	if name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	return core.TranslateError(core.Validate.Struct(up))
}

type QueryFilter struct {
	IsActive *bool `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.IsActive == nil
}
