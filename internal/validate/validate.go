// Package validate is the shared struct validator. Field names in errors are JSON tag names.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("language", validateLanguage)
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

// Struct validates all fields by their tags
func Struct(s any) error {
	return validate.Struct(s)
}

// Partial validates only listed fields (Go field names)
func Partial(s any, fields ...string) error {
	return validate.StructPartial(s, fields...)
}

// Languages offered by the site; the first one is the default
var Languages = []string{"en", "fr", "de", "es", "it"}

func IsLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateLanguage(fl validator.FieldLevel) bool {
	return IsLanguage(fl.Field().String())
}

// Phone numbers are digits with optional leading plus and common separators, 7 to 15 digits
func validatePhone(fl validator.FieldLevel) bool {
	digits := 0
	for i, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// Digits strips everything but digits
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
