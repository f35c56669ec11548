// Package validation checks account payloads before they reach storage.
// Both checks are pure and report every problem instead of stopping at the
// first one.
package validation

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("strongpassword", strongPassword)
	_ = v.RegisterValidation("date", isDate)
	return v
}

// strongPassword requires a lower case letter, an upper case letter, a digit
// and a symbol.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit, symbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// reason converts the first failure of a Var check into a readable message.
func reason(field string, err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Sprintf("%s is not valid", field)
	}
	fe := ve[0]
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "alphanum", "alphanumunicode":
		return field + " must contain only letters and numbers"
	case "email":
		return field + " must be a valid email"
	case "strongpassword":
		return field + " must mix upper and lower case letters, digits and symbols"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "date":
		return field + " must be a valid date"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
