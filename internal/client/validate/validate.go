// Package validate checks console forms before anything is sent to the
// backend. A failed check returns Errors, keyed by form field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)
	mobile     = regexp.MustCompile(`^[6-9]\d{9}$`)
	gstin      = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	pincode    = regexp.MustCompile(`^\d{6}$`)
)

// Errors maps a form field to the message shown next to it.
type Errors map[string]string

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e Errors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var fe Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})

	for tag, re := range map[string]*regexp.Regexp{
		"loose_email": looseEmail,
		"mobile":      mobile,
		"gstin":       gstin,
		"pincode":     pincode,
	} {
		re := re
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// Check validates a form struct.
func Check(form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("validate: %w", err)
	}

	t := reflect.TypeOf(form)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(Errors, len(ves))
	for _, fe := range ves {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(t, fe)
	}
	return out
}

func label(t reflect.Type, field string) string {
	if f, ok := t.FieldByName(field); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return field
}

func message(t reflect.Type, fe validator.FieldError) string {
	f, _ := t.FieldByName(fe.StructField())
	if custom := f.Tag.Get(fe.Tag() + "_msg"); custom != "" {
		return custom
	}

	name := label(t, fe.StructField())
	switch fe.Tag() {
	case "required", "required_unless":
		return name + " is required"
	case "loose_email":
		return "Enter a valid email"
	case "mobile":
		return "Enter a valid 10-digit mobile number"
	case "gstin":
		return "Enter a valid GST number"
	case "pincode":
		return "Enter a valid 6-digit pincode"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", name, strings.ToLower(label(t, fe.Param())))
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", name, strings.ToLower(label(t, fe.Param())))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return name + " is invalid"
	}
}
