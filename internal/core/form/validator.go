// Package form validates submitted forms with go-playground/validator and
// turns failures into one message per field.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for f, m := range fe {
		msgs = append(msgs, f+": "+m)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field failed.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Validator checks structs tagged with `validate` and `form`. Messages can be
// overridden per "field.tag" through the `msg` struct tag, written as
// msg:"required=Please enter your password;min=Too short".
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password_complexity", passwordComplexity)
	return &Validator{v: v}
}

// Struct validates i and returns FieldErrors, or nil when valid. Only the
// first failing rule of each field is kept.
func (fv *Validator) Struct(i any) error {
	err := fv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	overrides := messageOverrides(i)
	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		if m, ok := overrides[fe.StructField()+"."+fe.Tag()]; ok {
			out[fe.Field()] = m
			continue
		}
		out[fe.Field()] = fieldError(fe)
	}
	return out
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(strings.ToLower(fe.Field()), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return field + " does not match"
	case "password_complexity":
		return field + " must include at least one number, one uppercase and one lowercase letter"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func messageOverrides(i any) map[string]string {
	t := reflect.TypeOf(i)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]string)
	for n := 0; n < t.NumField(); n++ {
		f := t.Field(n)
		for _, pair := range strings.Split(f.Tag.Get("msg"), ";") {
			tag, msg, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			out[f.Name+"."+strings.TrimSpace(tag)] = strings.TrimSpace(msg)
		}
	}
	return out
}

// passwordComplexity requires a digit, an upper and a lower case letter.
func passwordComplexity(fl validator.FieldLevel) bool {
	var digit, upper, lower bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	return digit && upper && lower
}
