package system

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingFields = errors.New("Name, email, and message are required")
	ErrInvalidEmail  = errors.New("Invalid email format")
)

// one @, a dot somewhere after it, no whitespace
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidEmail reports whether s looks like local@domain.tld.
// RE2's \s is ASCII only, so unicode spaces (\v, NBSP, em space) are checked separately.
func ValidEmail(s string) bool {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(s)
}

// validateContact returns ErrMissingFields or ErrInvalidEmail, missing fields first.
func validateContact(req ContactRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		if e.Tag() == "required" {
			return ErrMissingFields
		}
	}
	return ErrInvalidEmail
}
