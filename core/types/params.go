package types

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Named is a struct-typed parameter given as field name -> value.
type Named map[string]any

// Positional is a struct-typed parameter given as a list of values. It can only be
// resolved against a struct whose field order has been declared on the proxy.
type Positional []any

// AsNamed returns v as a Named value when it is an object-like parameter.
func AsNamed(v any) (Named, bool) {
	switch n := v.(type) {
	case Named:
		return n, true
	case map[string]any:
		return Named(n), true
	}
	return nil, false
}

// AsPositional returns v as a Positional value when it is a list-like parameter.
func AsPositional(v any) (Positional, bool) {
	switch p := v.(type) {
	case Positional:
		return p, true
	case []any:
		return Positional(p), true
	}
	return nil, false
}

// Param is one named action parameter.
type Param struct {
	Name  string
	Value any
}

// ActionParams is the named parameter object sent with an action. Unlike a map, it keeps
// the schema field order when marshaled to JSON.
type ActionParams []Param

// Get returns the value of the named parameter.
func (p ActionParams) Get(name string) (any, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// Names returns the parameter names in order.
func (p ActionParams) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Map returns the parameters as an unordered map.
func (p ActionParams) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}
	return m
}

func (p ActionParams) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal parameter '%s'", param.Name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
