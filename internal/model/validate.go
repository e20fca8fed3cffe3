package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Entity is implemented by every stored record.
type Entity interface {
	Key() string
}

// ValidationError reports the first malformed field of an entity.
type ValidationError struct {
	Field string
	Rule  string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v fails %q", e.Field, e.Value, e.Rule)
}

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
	v.RegisterStructValidation(contractPeriod, AMCContract{})
	return v
}

// contractPeriod rejects contracts that end before they start. Both dates are
// already checked as 2006-01-02, so lexical order is calendar order.
func contractPeriod(sl validator.StructLevel) {
	c := sl.Current().Interface().(AMCContract)
	if c.StartDate != "" && c.EndDate != "" && c.EndDate < c.StartDate {
		sl.ReportError(c.EndDate, "endDate", "EndDate", "gtefield", "startDate")
	}
}

// Validate checks enum membership, date formats and numeric bounds of an entity.
// It returns a *ValidationError describing the first failing field.
func Validate(e any) error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Rule: fe.Tag(), Value: fe.Value()}
	}
	return err
}
