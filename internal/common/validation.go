package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationFailed converts validator errors into a 422 AppError
func ValidationFailed(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation("%s", err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe.Field(), fe))
	}
	return Validation("%s", strings.Join(msgs, "; "))
}

// ValidateField checks a single value against tag and names it field on failure
func ValidateField(v *validator.Validate, field string, value any, tag string) *AppError {
	err := v.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return Validation("%s", describeFieldError(field, verrs[0]))
	}
	return Validation("%s: %s", field, err.Error())
}

func describeFieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field required", field)
	case "max":
		return fmt.Sprintf("%s: ensure this value has at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s: value is not a valid email address", field)
	default:
		return fmt.Sprintf("%s: failed on the '%s' rule", field, fe.Tag())
	}
}
