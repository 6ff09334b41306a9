package shipping

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/shiplabel/shiplabel-backend/internal/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		default:
			return name
		}
	})
	return v
}

// ValidationError maps field paths (json names) to a human readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid input"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == pkgerrors.ErrInvalidArgument
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate runs struct tag validation and reports failures by json field path.
func Validate(v any) error {
	ve := &ValidationError{}
	collect(ve, v)
	return ve.orNil()
}

func collect(ve *ValidationError, v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		ve.add(fieldPath(fe), describe(fe))
	}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		if isString {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "min":
		if isString {
			return "this field may not be blank"
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "len":
		return fmt.Sprintf("ensure this field has exactly %s characters", fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// numeric(6,2) holds values below 10^4.
var maxDimension = decimal.NewFromInt(10000)

func checkDimension(ve *ValidationError, field string, d decimal.Decimal) {
	if d.IsNegative() {
		ve.add(field, "ensure this value is greater than or equal to 0")
		return
	}
	if d.GreaterThanOrEqual(maxDimension) {
		ve.add(field, "ensure there are no more than 4 digits before the decimal point")
	}
}
