package util

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

var jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// StructAsArgs converts a struct to a list of action arguments from its fields, in the same
// order as they are defined in the struct.
// Fields tagged `abi:"-"` are skipped and fields tagged `validate:"required"` must not be zero.
// Nested plain structs become types.Named objects keyed by their json names, so they pass
// the proxy's nested struct check; values implementing json.Marshaler are kept as is.
func StructAsArgs(s any) ([]any, error) {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("nil struct pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected a struct, got %T", s)
	}
	t := v.Type()

	var args []any
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("abi") == "-" {
			continue
		}
		fv := v.Field(i)

		isRequired := field.Tag.Get("validate") == "required"
		if isRequired && fv.IsZero() {
			return nil, errors.Errorf("required field '%s' is empty", field.Name)
		}

		if !isAcceptedType(fv.Type()) {
			return nil, errors.Errorf("unsupported field type '%s' for field '%s'", fv.Type().String(), field.Name)
		}

		value, err := argValue(fv)
		if err != nil {
			return nil, errors.Wrapf(err, "field '%s'", field.Name)
		}
		args = append(args, value)
	}

	return args, nil
}

func argValue(v reflect.Value) (any, error) {
	if v.Kind() == reflect.Struct && !v.Type().Implements(jsonMarshalerType) {
		return structAsNamed(v)
	}
	return v.Interface(), nil
}

func structAsNamed(v reflect.Value) (types.Named, error) {
	t := v.Type()
	named := make(types.Named, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("abi") == "-" {
			continue
		}
		name := jsonName(field)
		if name == "" {
			continue
		}
		value, err := argValue(v.Field(i))
		if err != nil {
			return nil, err
		}
		named[name] = value
	}
	return named, nil
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return strings.ToLower(field.Name)
}

// isAcceptedType checks if values of t can be sent as an action argument
func isAcceptedType(t reflect.Type) bool {
	if t.Implements(jsonMarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool, reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array, reflect.Ptr:
		return isAcceptedType(t.Elem())
	case reflect.Map:
		return t.Key().Kind() == reflect.String && isAcceptedType(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() && !isAcceptedType(f.Type) {
				return false
			}
		}
		return true
	case reflect.Interface:
		return true
	default:
		return false
	}
}
