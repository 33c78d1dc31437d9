// Package forms holds the request validation that runs before any call to
// the marketplace API.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	mobileRe = regexp.MustCompile(`^\d{10}$`)
	// 8+ chars of [A-Za-z\d@$!%*?#&] with lower, upper, digit and symbol.
	pwCharsRe  = regexp.MustCompile(`^[A-Za-z\d@$!%*?#&]{8,}$`)
	pwLowerRe  = regexp.MustCompile(`[a-z]`)
	pwUpperRe  = regexp.MustCompile(`[A-Z]`)
	pwDigitRe  = regexp.MustCompile(`\d`)
	pwSymbolRe = regexp.MustCompile(`[@$!%*?#&]`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Prices are decimals; let numeric tags (gte, lte) see them as floats.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			x, _ := d.Float64()
			return x
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func StrongPassword(pw string) bool {
	return pwCharsRe.MatchString(pw) && pwLowerRe.MatchString(pw) &&
		pwUpperRe.MatchString(pw) && pwDigitRe.MatchString(pw) && pwSymbolRe.MatchString(pw)
}

// ValidationError carries one user-facing message per failed field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for _, m := range e.Fields {
			return m
		}
	}
	return "Please fix the errors in the form."
}

type messages map[string]map[string]string // field -> tag -> message

func check(v any, labels map[string]string, msgs messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out.Fields[field]; seen {
			continue
		}
		if m, ok := msgs[field][fe.Tag()]; ok {
			out.Fields[field] = m
			continue
		}
		label := labels[field]
		if label == "" {
			label = "This field"
		}
		switch fe.Tag() {
		case "required", "notblank":
			out.Fields[field] = label + " is required"
		default:
			out.Fields[field] = fmt.Sprintf("%s is invalid", label)
		}
	}
	return out
}
