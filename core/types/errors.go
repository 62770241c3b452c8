package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// schema errors, fatal to proxy construction
	ErrSchemaFetch  = errors.New("schema fetch failed")
	ErrSchemaFormat = errors.New("schema format is invalid")

	// call construction errors, raised before anything reaches the transport
	ErrUnknownAction             = errors.New("unknown action")
	ErrUnknownTable              = errors.New("unknown table function")
	ErrUnknownStruct             = errors.New("unknown struct")
	ErrParamCountMismatch        = errors.New("parameter count mismatch")
	ErrFieldCountMismatch        = errors.New("field count mismatch")
	ErrUnknownField              = errors.New("unknown field")
	ErrDuplicateField            = errors.New("duplicate field")
	ErrMissingNestedField        = errors.New("missing nested struct field")
	ErrUnresolvedPositionalArray = errors.New("positional array without a declared field order")
	ErrNestedTypeMismatch        = errors.New("expected an object matching struct type")
	ErrInvalidQueryArgument      = errors.New("invalid query argument")

	// pagination errors
	ErrMalformedPageResponse = errors.New("malformed table page response")
)

// SchemaError reports a failure to load the interface schema of a target.
// Both Kind and Cause are reachable through errors.Is / errors.As.
type SchemaError struct {
	Target string
	Kind   error
	Cause  error
}

func (e *SchemaError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("schema %s: %v", e.Target, e.Kind)
	}
	return fmt.Sprintf("schema %s: %v: %v", e.Target, e.Kind, e.Cause)
}

func (e *SchemaError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// CallError reports a malformed action or table call.
// Position is 1-based and zero when the error is not tied to one argument.
type CallError struct {
	Target   string
	Function string
	Position int
	Field    string
	Detail   string
	Err      error
}

func (e *CallError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[PROXY %s::%s]", e.Target, e.Function)
	if e.Position > 0 {
		fmt.Fprintf(&b, " parameter #%d", e.Position)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field '%s'", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *CallError) Unwrap() error {
	return e.Err
}
