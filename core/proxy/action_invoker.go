package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"go.uber.org/zap"
)

// actionInvoker validates the arguments of one action call, builds its named parameter
// object and pushes it through the transport.
//
// Validation runs in two passes, the argument count and then the shape of every
// struct-typed argument, so a mistake is reported with the position and field it
// happened at instead of as an opaque transport failure.
type actionInvoker struct {
	target      string
	schema      *types.InterfaceSchema
	transport   types.Transport
	fieldOrders *FieldOrderRegistry
	logger      *zap.Logger
}

// Build returns the parameter object action would be pushed with.
func (i *actionInvoker) Build(action string, params []any) (types.ActionParams, error) {
	desc, ok := i.schema.Action(action)
	if !ok {
		return nil, i.callError(action, params, 0, "", types.ErrUnknownAction, "")
	}
	st, ok := i.schema.Struct(desc.Type)
	if !ok {
		// schema.Load rejects these, only reachable with a hand built schema
		return nil, i.callError(action, params, 0, "", types.ErrUnknownStruct, desc.Type)
	}

	if len(params) != len(st.Fields) {
		return nil, i.callError(action, params, 0, "", types.ErrParamCountMismatch,
			fmt.Sprintf("expected %d parameter(s), got %d", len(st.Fields), len(params)))
	}

	out := make(types.ActionParams, len(params))
	for idx, field := range st.Fields {
		value := params[idx]
		if nested, ok := i.schema.Struct(field.Type); ok {
			named, err := i.fieldOrders.Resolve(nested.Name, value)
			if err != nil {
				return nil, i.wrapCallError(action, params, idx+1, field.Name, err)
			}
			for _, nf := range nested.Fields {
				if _, present := named[nf.Name]; !present {
					return nil, i.callError(action, params, idx+1, nf.Name, types.ErrMissingNestedField,
						fmt.Sprintf("object does not match struct type '%s'", nested.Name))
				}
			}
			value = named
		}
		out[idx] = types.Param{Name: field.Name, Value: value}
	}
	return out, nil
}

// Invoke builds the parameters and dispatches them with the current signer. Transport
// results and failures are returned verbatim.
func (i *actionInvoker) Invoke(ctx context.Context, state *State, action string, params []any) (json.RawMessage, error) {
	built, err := i.Build(action, params)
	if err != nil {
		return nil, err
	}

	signer := state.Signer()
	i.logger.Debug("push action",
		zap.String("target", i.target),
		zap.String("action", action),
		zap.String("signer", signer),
		zap.Int("params", len(built)),
	)
	return i.transport.InvokeAction(ctx, i.target, action, built, signer)
}

func (i *actionInvoker) callError(action string, params []any, position int, field string, kind error, detail string) error {
	if detail != "" {
		detail = detail + "; "
	}
	return &types.CallError{
		Target:   i.target,
		Function: action,
		Position: position,
		Field:    field,
		Detail:   detail + "called with (" + formatParams(params) + ")",
		Err:      kind,
	}
}

// wrapCallError keeps the sentinel of err reachable while attaching the call position.
func (i *actionInvoker) wrapCallError(action string, params []any, position int, field string, err error) error {
	return &types.CallError{
		Target:   i.target,
		Function: action,
		Position: position,
		Field:    field,
		Detail:   "called with (" + formatParams(params) + ")",
		Err:      errors.WithStack(err),
	}
}

func formatParams(params []any) string {
	parts := make([]string, len(params))
	for idx, p := range params {
		data, err := json.Marshal(p)
		if err != nil {
			parts[idx] = fmt.Sprintf("%v", p)
			continue
		}
		parts[idx] = string(data)
	}
	return strings.Join(parts, ",")
}
