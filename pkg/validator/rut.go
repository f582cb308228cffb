package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	rutDottedRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3}){2}-[\dkK]$`)
	rutPlainRe  = regexp.MustCompile(`^\d{7,8}-[\dkK]$`)
)

// ValidRUT reports whether s matches the national identifier format,
// with or without thousands separators.
func ValidRUT(s string) bool {
	return rutDottedRe.MatchString(s) || rutPlainRe.MatchString(s)
}

// RegisterBindings installs the custom "rut" rule into gin's
// request-binding validator.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("rut", func(fl validator.FieldLevel) bool {
		return ValidRUT(fl.Field().String())
	})
}
