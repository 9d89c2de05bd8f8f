package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance. It is thread-safe and
// shared by every Bind call.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report violations under the wire name of the field, not the Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			if name, _, _ := strings.Cut(fld.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
}

// check runs rule validation on a decoded struct and converts the result
// into field errors under the given path prefix ("query" or "body").
// Fields that already failed decoding are skipped: a value that could not
// be decoded is still the zero value and would only produce noise.
func check(prefix string, v any, failed map[string]bool) Errors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// validator.InvalidValidationError: the schema itself is not a
		// struct. Treat the whole section as invalid.
		return Errors{{Field: prefix, Message: "is invalid"}}
	}

	var errs Errors
	for _, fe := range verrs {
		if failed[fe.Field()] {
			continue
		}
		errs = append(errs, FieldError{
			Field:   prefix + "." + fieldPath(fe),
			Message: ruleMessage(fe),
		})
	}
	return errs
}

// fieldPath strips the root struct name from the validator namespace,
// leaving the dotted wire path of the field.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// ruleMessage returns a human-readable message for a failed validation rule.
func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
