package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return internal.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return internal.Mood(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("goalstatus", func(fl validator.FieldLevel) bool {
		return internal.GoalStatus(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failing field as ErrValidationFailed.
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed on %q", internal.ErrValidationFailed, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", internal.ErrValidationFailed, err)
}

// parseRequestDate accepts a calendar date or an RFC 3339 timestamp and
// returns local midnight of that day.
func parseRequestDate(field, s string) (time.Time, error) {
	if t, err := internal.ParseDate(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date like 2006-01-02", internal.ErrInvalidInput, field)
	}
	return internal.StartOfDay(t.In(time.Local)), nil
}
