package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	errors "github.com/frahmantamala/mvd-portal/internal"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("isodate", isISODate); err != nil {
			panic("register isodate validation: " + err.Error())
		}
		validate = v
	})
	return validate
}

// Struct validates s against its `validate` tags. Field names in the returned
// details use the JSON names.
func Struct(s interface{}) *errors.AppError {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error(), errors.ErrCodeValidationFailed)
	}

	details := errors.ValidationErrors{Errors: make([]errors.ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		details.Errors = append(details.Errors, errors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    strings.ToUpper(fe.Tag()),
		})
	}
	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).WithDetails(details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}
