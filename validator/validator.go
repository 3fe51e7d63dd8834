package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// phoneRegex is a regular expression to validate phone numbers.
	phoneRegex = regexp.MustCompile(`^\+[0-9\s\(\)\-]+$`)

	// timeOfDayRegex matches 24h clock values such as 08:00 or 17:30.
	timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()

	// Report field names as they appear on the wire
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validation functions
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("timeofday", validateTimeOfDay)

	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package.
func (v *Validator) Validate(s interface{}) error {
	return v.validator.Struct(s)
}

// validatePhone validates a phone number.
func validatePhone(fl validator.FieldLevel) bool {
	// If the field is empty, it's valid (use required tag if it's required)
	if fl.Field().String() == "" {
		return true
	}

	return phoneRegex.MatchString(fl.Field().String())
}

// validateTimeOfDay validates a 24h HH:MM clock value.
func validateTimeOfDay(fl validator.FieldLevel) bool {
	if fl.Field().String() == "" {
		return true
	}

	return timeOfDayRegex.MatchString(fl.Field().String())
}
