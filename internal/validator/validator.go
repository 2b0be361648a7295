package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
)

// Validator wraps go-playground/validator with the domain tags
// `puja_type` and `time_slot` and turns failures into apperr validation
// errors keyed by JSON field name.  It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("puja_type", func(fl validator.FieldLevel) bool {
		return model.IsPujaType(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register puja_type: %w", err)
	}
	if err := v.RegisterValidation("time_slot", func(fl validator.FieldLevel) bool {
		return model.IsTimeSlot(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register time_slot: %w", err)
	}
	return &Validator{validate: v}, nil
}

// MustNew is New for process wiring, where a failure is a programming error.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks i against its struct tags.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return translate(verrs)
	}
	return apperr.Validation(err.Error(), nil)
}

func translate(errs validator.ValidationErrors) error {
	details := make(map[string]any, len(errs))
	first := ""
	for _, fe := range errs {
		msg := message(fe)
		if first == "" {
			first = msg
		}
		if _, seen := details[fe.Field()]; !seen {
			details[fe.Field()] = msg
		}
	}
	return apperr.Validation(first, details)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	case "puja_type":
		return fmt.Sprintf("%s must be one of the offered ceremonies", field)
	case "time_slot":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(model.TimeSlots, ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
