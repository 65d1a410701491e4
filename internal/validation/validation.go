// Package validation builds the go-playground validator shared by request
// DTOs and plan and tier records.
//
// Decimal fields are compared exactly with the "decgte" and "declte" tags.
// The built-in numeric tags do not apply to decimal.Decimal.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that reports fields under their JSON names and
// registers the "enum", "decgte" and "declte" tags.
//
// "enum" defers to the field's IsValid method. "decgte=N" and "declte=N"
// compare a decimal.Decimal (or a non-nil *decimal.Decimal) against N
// without any float conversion.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Decimals reach the tag funcs as their exact string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	must(v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ IsValid() bool })
		return ok && e.IsValid()
	}))
	must(v.RegisterValidation("decgte", decimalBound(func(c int) bool { return c >= 0 })))
	must(v.RegisterValidation("declte", decimalBound(func(c int) bool { return c <= 0 })))
	return v
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("validation: registering tag: %v", err))
	}
}

// decimalBound compares the field with the tag parameter. A field or
// parameter that is not a decimal fails the check.
func decimalBound(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(d.Cmp(bound))
	}
}
