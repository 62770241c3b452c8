package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// MaxPositionalQueryArgs is the number of positional slots a table function accepts:
// lower, upper, limit, scope, page cap, binary, reverse, show-payer, time limit.
const MaxPositionalQueryArgs = 9

// QueryOptions holds every table query setting. Nil fields are unset, which lets several
// option records be merged left to right with later values winning.
type QueryOptions struct {
	Lower      *string `json:"lower,omitempty"`
	Upper      *string `json:"upper,omitempty"`
	Limit      *int    `json:"limit,omitempty"`
	Scope      *string `json:"scope,omitempty"`
	PageLimit  *int    `json:"pageLimit,omitempty"`
	Binary     *bool   `json:"binary,omitempty"`
	Reverse    *bool   `json:"reverse,omitempty"`
	ShowPayer  *bool   `json:"showPayer,omitempty"`
	TimeLimit  *int    `json:"timeLimit,omitempty"`
	KeyType    *string `json:"keyType,omitempty"`
	EncodeType *string `json:"encodeType,omitempty"`
}

// Merge overwrites every field of o that is set in other.
func (o *QueryOptions) Merge(other QueryOptions) {
	if other.Lower != nil {
		o.Lower = other.Lower
	}
	if other.Upper != nil {
		o.Upper = other.Upper
	}
	if other.Limit != nil {
		o.Limit = other.Limit
	}
	if other.Scope != nil {
		o.Scope = other.Scope
	}
	if other.PageLimit != nil {
		o.PageLimit = other.PageLimit
	}
	if other.Binary != nil {
		o.Binary = other.Binary
	}
	if other.Reverse != nil {
		o.Reverse = other.Reverse
	}
	if other.ShowPayer != nil {
		o.ShowPayer = other.ShowPayer
	}
	if other.TimeLimit != nil {
		o.TimeLimit = other.TimeLimit
	}
	if other.KeyType != nil {
		o.KeyType = other.KeyType
	}
	if other.EncodeType != nil {
		o.EncodeType = other.EncodeType
	}
}

// HasBound reports whether a lower or upper bound was supplied.
func (o QueryOptions) HasBound() bool {
	return o.Lower != nil || o.Upper != nil
}

// HasIndexConfig reports whether a key type or encode type was supplied.
func (o QueryOptions) HasIndexConfig() bool {
	return o.KeyType != nil || o.EncodeType != nil
}

// PositionalQueryOptions binds positional table function arguments to their slots.
// The first argument sets both bounds so that table(7) reads exactly the row keyed 7.
func PositionalQueryOptions(args []any) (QueryOptions, error) {
	var opts QueryOptions
	if len(args) > MaxPositionalQueryArgs {
		return opts, errors.Wrapf(ErrInvalidQueryArgument, "at most %d positional arguments are accepted, got %d", MaxPositionalQueryArgs, len(args))
	}
	for i, arg := range args {
		var err error
		switch i {
		case 0:
			var bound string
			if bound, err = boundValue(arg); err == nil {
				opts.Lower, opts.Upper = &bound, Ptr(bound)
			}
		case 1:
			opts.Upper, err = boundPtr(arg)
		case 2:
			opts.Limit, err = intPtr(arg)
		case 3:
			opts.Scope, err = stringPtr(arg)
		case 4:
			opts.PageLimit, err = intPtr(arg)
		case 5:
			opts.Binary, err = boolPtr(arg)
		case 6:
			opts.Reverse, err = boolPtr(arg)
		case 7:
			opts.ShowPayer, err = boolPtr(arg)
		case 8:
			opts.TimeLimit, err = intPtr(arg)
		}
		if err != nil {
			return opts, errors.Wrapf(err, "positional argument #%d", i+1)
		}
	}
	return opts, nil
}

// ParseQueryOptions reads an options object. Both the camelCase keys and the hyphenated
// spellings of the command line client are accepted; unknown keys are rejected.
func ParseQueryOptions(m map[string]any) (QueryOptions, error) {
	var opts QueryOptions
	for key, value := range m {
		var err error
		switch key {
		case "lower":
			opts.Lower, err = boundPtr(value)
		case "upper":
			opts.Upper, err = boundPtr(value)
		case "limit":
			opts.Limit, err = intPtr(value)
		case "scope":
			opts.Scope, err = stringPtr(value)
		case "pageLimit", "page-limit":
			opts.PageLimit, err = intPtr(value)
		case "binary":
			opts.Binary, err = boolPtr(value)
		case "reverse":
			opts.Reverse, err = boolPtr(value)
		case "showPayer", "show-payer":
			opts.ShowPayer, err = boolPtr(value)
		case "timeLimit", "time-limit":
			opts.TimeLimit, err = intPtr(value)
		case "keyType", "key-type":
			opts.KeyType, err = stringPtr(value)
		case "encodeType", "encode-type":
			opts.EncodeType, err = stringPtr(value)
		default:
			err = errors.Wrapf(ErrInvalidQueryArgument, "unknown option '%s'", key)
		}
		if err != nil {
			return opts, errors.Wrapf(err, "option '%s'", key)
		}
	}
	return opts, nil
}

// IndexConfig is the persisted per (table, index) secondary key configuration.
type IndexConfig struct {
	KeyType    string `json:"keyType,omitempty"`
	EncodeType string `json:"encodeType,omitempty"`
}

// QueryRequest is one page request sent to the transport.
type QueryRequest struct {
	ID         string `json:"id"`
	Table      string `json:"table"`
	Index      int    `json:"index"`
	Scope      string `json:"scope"`
	Lower      string `json:"lower,omitempty"`
	Upper      string `json:"upper,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Binary     bool   `json:"binary,omitempty"`
	Reverse    bool   `json:"reverse,omitempty"`
	ShowPayer  bool   `json:"showPayer,omitempty"`
	TimeLimit  int    `json:"timeLimit,omitempty"`
	KeyType    string `json:"keyType,omitempty"`
	EncodeType string `json:"encodeType,omitempty"`
}

// PageResponse is the shape every table page must have.
type PageResponse struct {
	Rows    []json.RawMessage `json:"rows" validate:"required"`
	More    *bool             `json:"more" validate:"required"`
	NextKey *string           `json:"next_key" validate:"required"`
}

// QueryResult is the concatenation of every page fetched for one table function call.
// When Truncated is set the page ceiling was hit while the server still reported more
// rows, so Rows is incomplete.
type QueryResult struct {
	Rows      []json.RawMessage `json:"rows"`
	Options   QueryOptions      `json:"options"`
	Requests  []QueryRequest    `json:"requests"`
	Truncated bool              `json:"truncated,omitempty"`
}

// DecodeRows unmarshals every row of the result into T.
func DecodeRows[T any](result *QueryResult) ([]T, error) {
	if result == nil {
		return nil, nil
	}
	out := make([]T, 0, len(result.Rows))
	for i, raw := range result.Rows {
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrapf(err, "decode row %d", i)
		}
		out = append(out, row)
	}
	return out, nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func boundValue(v any) (string, error) {
	switch b := v.(type) {
	case string:
		return b, nil
	case json.Number:
		return b.String(), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(b), nil
	case float64:
		if b == math.Trunc(b) && math.Abs(b) < 1<<53 {
			return strconv.FormatInt(int64(b), 10), nil
		}
		return strconv.FormatFloat(b, 'f', -1, 64), nil
	case fmt.Stringer:
		return b.String(), nil
	}
	return "", errors.Wrapf(ErrInvalidQueryArgument, "unsupported bound type %T", v)
}

func boundPtr(v any) (*string, error) {
	s, err := boundValue(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func stringPtr(v any) (*string, error) {
	switch s := v.(type) {
	case nil:
		// an absent scope resets to the target
		return Ptr(""), nil
	case string:
		return &s, nil
	case fmt.Stringer:
		return Ptr(s.String()), nil
	}
	return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected a string, got %T", v)
}

func intPtr(v any) (*int, error) {
	switch n := v.(type) {
	case int:
		return &n, nil
	case int8:
		return Ptr(int(n)), nil
	case int16:
		return Ptr(int(n)), nil
	case int32:
		return Ptr(int(n)), nil
	case int64:
		return Ptr(int(n)), nil
	case uint:
		return Ptr(int(n)), nil
	case uint8:
		return Ptr(int(n)), nil
	case uint16:
		return Ptr(int(n)), nil
	case uint32:
		return Ptr(int(n)), nil
	case uint64:
		return Ptr(int(n)), nil
	case float64:
		if n != math.Trunc(n) {
			return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected an integer, got %v", n)
		}
		return Ptr(int(n)), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected an integer, got %s", n)
		}
		return Ptr(int(i)), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected an integer, got %q", n)
		}
		return &i, nil
	}
	return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected an integer, got %T", v)
}

func boolPtr(v any) (*bool, error) {
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected a boolean, got %q", b)
		}
		return &parsed, nil
	}
	return nil, errors.Wrapf(ErrInvalidQueryArgument, "expected a boolean, got %T", v)
}
