package member

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/jherparva/TauroGym-sub000/core"
)

var (
	cedulaTag   = "cedula"
	cedulaText  = "national ID must be 6 to 12 digits"
	cedulaRegex = regexp.MustCompile(`^\d{6,12}$`)
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(cedulaTag, cedulaValidation)
	core.RegisterCustomTranslation(cedulaTag, cedulaText)
}

// cedulaValidation checks the national ID format (cédula: digits only).
func cedulaValidation(fl validator.FieldLevel) bool {
	return cedulaRegex.MatchString(fl.Field().String())
}
