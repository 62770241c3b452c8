package proxy

import (
	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

// FieldOrderRegistry records, per struct, the order in which positional values are given
// for that struct. It lets callers write a nested struct parameter as a list instead of a
// named object.
type FieldOrderRegistry struct {
	schema *types.InterfaceSchema
	orders map[string][]string
}

func NewFieldOrderRegistry(schema *types.InterfaceSchema) *FieldOrderRegistry {
	return &FieldOrderRegistry{
		schema: schema,
		orders: make(map[string][]string),
	}
}

// Declare records the positional order of structName's fields, replacing any earlier
// declaration. fields must be a permutation of the struct's field names; a rejected
// declaration leaves the previous one in place.
func (r *FieldOrderRegistry) Declare(structName string, fields []string) error {
	st, ok := r.schema.Struct(structName)
	if !ok {
		return errors.Wrapf(types.ErrUnknownStruct, "'%s'", structName)
	}
	if len(fields) != len(st.Fields) {
		return errors.Wrapf(types.ErrFieldCountMismatch, "struct '%s' has %d field(s), got %d", structName, len(st.Fields), len(fields))
	}

	seen := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		if !st.HasField(name) {
			return errors.Wrapf(types.ErrUnknownField, "'%s' is not a field of struct '%s'", name, structName)
		}
		if _, dup := seen[name]; dup {
			return errors.Wrapf(types.ErrDuplicateField, "'%s' is listed twice for struct '%s'", name, structName)
		}
		seen[name] = struct{}{}
	}

	r.orders[structName] = append([]string(nil), fields...)
	return nil
}

// Order returns a copy of the declared order for structName.
func (r *FieldOrderRegistry) Order(structName string) ([]string, bool) {
	order, ok := r.orders[structName]
	if !ok {
		return nil, false
	}
	return append([]string(nil), order...), true
}

// Resolve turns a struct-typed parameter value into a named object.
// Named values are returned unchanged; positional values are zipped with the declared
// order and fail with types.ErrUnresolvedPositionalArray when there is none.
func (r *FieldOrderRegistry) Resolve(structName string, value any) (types.Named, error) {
	if named, ok := types.AsNamed(value); ok {
		return named, nil
	}

	positional, ok := types.AsPositional(value)
	if !ok {
		return nil, errors.Wrapf(types.ErrNestedTypeMismatch, "'%s', got %T", structName, value)
	}

	order, ok := r.orders[structName]
	if !ok {
		return nil, errors.Wrapf(types.ErrUnresolvedPositionalArray, "struct '%s'", structName)
	}
	if len(positional) != len(order) {
		return nil, errors.Wrapf(types.ErrFieldCountMismatch, "struct '%s' expects %d positional value(s), got %d", structName, len(order), len(positional))
	}

	named := make(types.Named, len(order))
	for i, field := range order {
		named[field] = positional[i]
	}
	return named, nil
}
