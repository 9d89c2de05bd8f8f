package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Bind decodes and validates the request input against the given schema
// prototypes. Either prototype may be nil to skip that section. The returned
// values are freshly allocated pointers to the prototype struct types,
// populated with the coerced input; on failure err is an Errors holding
// every violation found in both sections.
func Bind(c *fiber.Ctx, queryProto, bodyProto any) (query, body any, err error) {
	var errs Errors

	if queryProto != nil {
		q := newOf(queryProto)
		bindErrs, failed := bindQuery(c, q)
		errs = append(errs, bindErrs...)
		errs = append(errs, check("query", q, failed)...)
		query = q
	}

	if bodyProto != nil {
		b := newOf(bodyProto)
		bindErrs, failed, decoded := bindBody(c.Body(), b)
		errs = append(errs, bindErrs...)
		if decoded {
			errs = append(errs, check("body", b, failed)...)
		}
		body = b
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return query, body, nil
}

// newOf allocates a fresh instance of the prototype's struct type,
// accepting both value and pointer prototypes.
func newOf(proto any) any {
	t := reflect.TypeOf(proto)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// bindQuery copies query-string parameters into dst, coercing each value to
// the field type. It returns the decode errors plus the set of wire names
// that failed, so rule validation can skip them.
func bindQuery(c *fiber.Ctx, dst any) (Errors, map[string]bool) {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()

	var errs Errors
	failed := map[string]bool{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := wireName(f, "query")
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		if msg := setFromString(v.Field(i), raw); msg != "" {
			errs = append(errs, FieldError{Field: "query." + name, Message: msg})
			failed[name] = true
		}
	}
	return errs, failed
}

// bindBody decodes a JSON body into dst field by field, so one undecodable
// field does not mask problems in the others. Unknown fields are rejected.
// An empty body decodes like an empty object; required rules report the
// missing fields. decoded reports whether dst holds usable values worth
// running rule validation on.
func bindBody(raw []byte, dst any) (errs Errors, failed map[string]bool, decoded bool) {
	failed = map[string]bool{}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, failed, true
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return Errors{{Field: "body", Message: "must be a JSON object"}}, failed, false
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := wireName(f, "json")
		member, ok := members[name]
		if !ok {
			continue
		}
		delete(members, name)
		if err := json.Unmarshal(member, v.Field(i).Addr().Interface()); err != nil {
			errs = append(errs, FieldError{Field: "body." + name, Message: expects(f.Type)})
			failed[name] = true
		}
	}

	// Whatever is left in the member map has no matching schema field.
	unknown := make([]string, 0, len(members))
	for name := range members {
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = append(errs, FieldError{Field: "body." + name, Message: "is not allowed"})
	}
	return errs, failed, true
}

// wireName resolves the incoming name of a struct field from its tag,
// defaulting to the field name with a lowercased first letter.
func wireName(f reflect.StructField, tag string) string {
	if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
		return name
	}
	return strings.ToLower(f.Name[:1]) + f.Name[1:]
}

// setFromString coerces a query-string value into the field and returns a
// violation message if the value does not fit.
func setFromString(field reflect.Value, raw string) string {
	if field.Kind() == reflect.Pointer {
		field.Set(reflect.New(field.Type().Elem()))
		field = field.Elem()
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return "must be an integer"
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, field.Type().Bits())
		if err != nil {
			return "must be an integer"
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return "must be a number"
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "must be a boolean"
		}
		field.SetBool(b)
	default:
		return "cannot be decoded from a query parameter"
	}
	return ""
}

// expects names the JSON shape a field requires, for decode error messages.
func expects(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.String:
		return "must be a string"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.Slice, reflect.Array:
		return "must be an array"
	case reflect.Struct, reflect.Map:
		return "must be an object"
	default:
		return "is invalid"
	}
}
