package plan

import (
	"github.com/go-playground/validator/v10"

	"github.com/jherparva/TauroGym-sub000/core"
)

var (
	durationUnitTag  = "durationunit"
	durationUnitText = "invalid duration unit"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(durationUnitTag, durationUnitValidation)
	core.RegisterCustomTranslation(durationUnitTag, durationUnitText)
}

// durationUnitValidation checks that the provided unit is in AllUnits
func durationUnitValidation(fl validator.FieldLevel) bool {
	unit := DurationUnit(fl.Field().String())
	for _, u := range AllUnits {
		if unit == u {
			return true
		}
	}
	return false
}
