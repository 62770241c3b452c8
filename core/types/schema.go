package types

import "strings"

// InterfaceSchema is the self-description of a contract account: the actions it accepts,
// the structs those actions (and tables) are typed with, and the tables it exposes.
// It is never mutated after it has been loaded.
type InterfaceSchema struct {
	Version string             `json:"version,omitempty"`
	Actions []ActionDescriptor `json:"actions" validate:"dive"`
	Structs []StructDescriptor `json:"structs" validate:"dive"`
	Tables  []TableDescriptor  `json:"tables" validate:"dive"`
}

type ActionDescriptor struct {
	Name              string `json:"name" validate:"required"`
	// Type is the name of the struct describing the action's single parameter
	Type              string `json:"type" validate:"required"`
	RicardianContract string `json:"ricardian_contract,omitempty"`
}

type FieldDescriptor struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

type StructDescriptor struct {
	Name   string            `json:"name" validate:"required"`
	// Base names the struct whose fields come first; schema loading folds them into Fields
	Base   string            `json:"base,omitempty"`
	Fields []FieldDescriptor `json:"fields" validate:"dive"`
}

type TableDescriptor struct {
	Name      string   `json:"name" validate:"required"`
	IndexType string   `json:"index_type,omitempty"`
	KeyNames  []string `json:"key_names,omitempty"`
	KeyTypes  []string `json:"key_types,omitempty"`
	// Type is the row struct name
	Type string `json:"type,omitempty"`
}

// Action returns the descriptor of the named action.
func (s *InterfaceSchema) Action(name string) (ActionDescriptor, bool) {
	for _, a := range s.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return ActionDescriptor{}, false
}

// Struct returns the descriptor of the named struct.
func (s *InterfaceSchema) Struct(name string) (StructDescriptor, bool) {
	for _, st := range s.Structs {
		if st.Name == name {
			return st, true
		}
	}
	return StructDescriptor{}, false
}

// Table returns the descriptor of the named table.
func (s *InterfaceSchema) Table(name string) (TableDescriptor, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableDescriptor{}, false
}

// IsStruct reports whether typeName names one of the schema structs.
// Only exact names match; "item[]" or "item?" are not struct-typed.
func (s *InterfaceSchema) IsStruct(typeName string) bool {
	_, ok := s.Struct(typeName)
	return ok
}

// FieldNames returns the field names of a struct in declaration order.
func (d StructDescriptor) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// HasField reports whether the struct declares a field with the given name.
func (d StructDescriptor) HasField(name string) bool {
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Identity names the account an action is attributed to, or the scope a table is read under.
// The sentinels Contract, Self and the empty string all mean "the target account itself".
const (
	Contract = "CONTRACT"
	Self     = "SELF"
)

// IsDefaultIdentity reports whether value is one of the sentinels resolving to the target account.
func IsDefaultIdentity(value string) bool {
	switch strings.TrimSpace(value) {
	case "", Contract, Self:
		return true
	}
	return false
}

// ResolveIdentity maps the default sentinels to target and returns any other value unchanged.
func ResolveIdentity(value, target string) string {
	if IsDefaultIdentity(value) {
		return target
	}
	return value
}
