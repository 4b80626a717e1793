// Package validator adapts go-playground/validator to echo and the domain's field errors.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}

		return field.Name
	})

	// decimals validate as float64 so gt, gte and lte work on amounts
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := d.Float64()

			return f
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			f, _ := d.Decimal.Float64()

			return f
		}

		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{})

	return &Validator{validate: v}
}

// Validate returns a *domainerrors.ValidationError listing every failing field.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate request")
	}

	out := domainerrors.NewValidationError(nil)
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), message(fe))
	}

	return out
}

// fieldPath drops the top-level struct name from the namespace: "req.items[0].quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}

	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required", "required_without", "required_with":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}

		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
		}

		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4", "uuid7":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "eqfield":
		return fmt.Sprintf("The %s does not match the %s.", field, humanize(fe.Param()))
	case "nefield":
		return fmt.Sprintf("The %s must be different from the %s.", field, humanize(fe.Param()))
	case "gtfield":
		return fmt.Sprintf("The %s must be after the %s.", field, humanize(fe.Param()))
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "e164":
		return fmt.Sprintf("The %s must be a valid phone number.", field)
	case "dive":
		return fmt.Sprintf("The %s contains an invalid value.", field)
	}

	return fmt.Sprintf("The %s is invalid.", field)
}

// humanize turns a Go field name such as CurrentPassword into "current password".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	return b.String()
}
