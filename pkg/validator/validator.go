package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Resource identifiers (HOSP001, PAT001, ...) are caller-assigned codes:
// an uppercase letter followed by uppercase letters, digits, dashes or
// underscores.
var resourceIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_-]{2,31}$`)

// RegisterCustom registers domain validations with gin's binding engine.
// Call once at startup before routes are served.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("resourceid", func(fl validator.FieldLevel) bool {
		return resourceIDPattern.MatchString(fl.Field().String())
	})
}
