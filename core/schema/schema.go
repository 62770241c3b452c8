package schema

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

var requiredSections = []string{"actions", "structs", "tables"}

// Load fetches and parses the interface schema of target.
//
// A transport failure is reported as a *types.SchemaError of kind types.ErrSchemaFetch,
// anything wrong with the payload as kind types.ErrSchemaFormat.
func Load(ctx context.Context, transport types.Transport, target string) (*types.InterfaceSchema, error) {
	raw, err := transport.FetchSchema(ctx, target)
	if err != nil {
		return nil, &types.SchemaError{Target: target, Kind: types.ErrSchemaFetch, Cause: err}
	}

	s, err := Parse(raw)
	if err != nil {
		return nil, &types.SchemaError{Target: target, Kind: types.ErrSchemaFormat, Cause: err}
	}
	return s, nil
}

// Parse decodes a raw schema payload and checks its shape.
// Some clients print the ABI wrapped as {"account_name": ..., "abi": {...}}; the wrapper is dropped.
func Parse(raw json.RawMessage) (*types.InterfaceSchema, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errors.Wrap(err, "payload is not a JSON object")
	}
	if inner, ok := top["abi"]; ok && isKind(inner, '{') {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, errors.Wrap(err, "abi field is not a JSON object")
		}
	}

	for _, section := range requiredSections {
		value, ok := top[section]
		if !ok {
			return nil, errors.Errorf("missing '%s'", section)
		}
		if !isKind(value, '[') {
			return nil, errors.Errorf("'%s' is not an array", section)
		}
	}

	var s types.InterfaceSchema
	if v, ok := top["version"]; ok {
		if err := json.Unmarshal(v, &s.Version); err != nil {
			return nil, errors.Wrap(err, "decode 'version'")
		}
	}
	for section, dst := range map[string]any{
		"actions": &s.Actions,
		"structs": &s.Structs,
		"tables":  &s.Tables,
	} {
		if err := json.Unmarshal(top[section], dst); err != nil {
			return nil, errors.Wrapf(err, "decode '%s'", section)
		}
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}
	if err := flattenBases(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the descriptors are complete and that every action's parameter struct exists.
func Validate(s *types.InterfaceSchema) error {
	if err := validator.New().Struct(s); err != nil {
		return errors.WithStack(err)
	}
	for _, a := range s.Actions {
		if !s.IsStruct(a.Type) {
			return errors.Errorf("struct '%s' not found for action '%s'", a.Type, a.Name)
		}
	}
	return nil
}

// flattenBases prepends the fields a struct inherits through its base chain, so every
// descriptor lists the full parameter set in wire order. Base is cleared once resolved.
func flattenBases(s *types.InterfaceSchema) error {
	index := make(map[string]int, len(s.Structs))
	for i, st := range s.Structs {
		index[st.Name] = i
	}

	resolved := make(map[string][]types.FieldDescriptor, len(s.Structs))
	var resolve func(name string, chain []string) ([]types.FieldDescriptor, error)
	resolve = func(name string, chain []string) ([]types.FieldDescriptor, error) {
		if fields, ok := resolved[name]; ok {
			return fields, nil
		}
		for _, seen := range chain {
			if seen == name {
				return nil, errors.Errorf("struct '%s' inherits from itself through %v", name, append(chain, name))
			}
		}
		st := s.Structs[index[name]]
		fields := st.Fields
		if st.Base != "" {
			if _, ok := index[st.Base]; !ok {
				return nil, errors.Errorf("base struct '%s' not found for struct '%s'", st.Base, name)
			}
			inherited, err := resolve(st.Base, append(chain, name))
			if err != nil {
				return nil, err
			}
			fields = append(append([]types.FieldDescriptor(nil), inherited...), st.Fields...)
		}
		resolved[name] = fields
		return fields, nil
	}

	for i, st := range s.Structs {
		fields, err := resolve(st.Name, nil)
		if err != nil {
			return err
		}
		s.Structs[i].Fields = fields
	}
	for i := range s.Structs {
		s.Structs[i].Base = ""
	}
	return nil
}

func isKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}
