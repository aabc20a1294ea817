// Package validation checks write-path records and reports field-keyed errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dimatakoy/org-demo/internal/apperror"
)

const (
	// MoneyScale is the number of decimal places a salary may carry.
	MoneyScale = 2
	// MoneyPrecision is the total number of digits a salary may carry.
	MoneyPrecision = 12
)

var instance = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Decimals are validated through their canonical string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("money", validateMoney); err != nil {
		panic(err)
	}
	return v
}

func validateMoney(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := ParseMoney(raw)
	return err == nil
}

// ParseMoney parses a salary amount and checks it is non-negative and fits
// numeric(MoneyPrecision, MoneyScale).
func ParseMoney(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, errors.New("must be a decimal number")
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, errors.New("must be greater than or equal to 0.00")
	}
	if -amount.Exponent() > MoneyScale {
		return decimal.Decimal{}, fmt.Errorf("must have no more than %d decimal places", MoneyScale)
	}
	if digits := integerDigits(amount) + MoneyScale; digits > MoneyPrecision {
		return decimal.Decimal{}, fmt.Errorf("must have no more than %d digits in total", MoneyPrecision)
	}
	return amount, nil
}

func integerDigits(amount decimal.Decimal) int {
	whole := amount.Truncate(0).Abs().String()
	if whole == "0" {
		return 0
	}
	return len(whole)
}

// Struct validates s and converts failures into an apperror validation error
// keyed by JSON field name.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = describe(fe)
	}
	return apperror.Validation(fields)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "money":
		if raw, ok := fe.Value().(string); ok {
			if _, err := ParseMoney(raw); err != nil {
				return err.Error()
			}
		}
		return "invalid amount"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
