package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/logging"
	"github.com/trufnetwork/abiproxy-go/core/schema"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"github.com/trufnetwork/abiproxy-go/core/util"
	"go.uber.org/zap"
)

const (
	// MaxIndex is the highest table index a function is generated for.
	MaxIndex = 8
	// DefaultMaxPages bounds the pages fetched by one table function call, whatever
	// page cap the caller asked for.
	DefaultMaxPages = 1000
)

// ActionFunc pushes one action; params are the action struct's fields in schema order.
type ActionFunc func(ctx context.Context, params ...any) (json.RawMessage, error)

// TableFunc reads one (table, index) pair. params mix positional arguments
// (lower, upper, limit, scope, page cap, binary, reverse, show-payer, time limit)
// with option objects (types.QueryOptions or a map with the same keys).
type TableFunc func(ctx context.Context, params ...any) (*types.QueryResult, error)

// Proxy is the calling surface generated from a target's interface schema: one function
// per action, one per (table, index) pair.
//
// A Proxy is not safe for concurrent use. Its signer, table scopes, index configuration
// and field orders are shared by every function it exposes.
type Proxy struct {
	target      string
	schema      *types.InterfaceSchema
	transport   types.Transport
	state       *State
	fieldOrders *FieldOrderRegistry
	invoker     *actionInvoker
	actions     map[string]ActionFunc
	tables      map[string]TableFunc
	logger      *zap.Logger
	maxPages    int
}

type Option func(*Proxy)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Proxy) {
		p.logger = logger
	}
}

// WithMaxPages overrides DefaultMaxPages.
func WithMaxPages(n int) Option {
	return func(p *Proxy) {
		p.maxPages = n
	}
}

// CreateProxy loads the interface schema of target and generates its functions. Only
// schema loading can fail here; malformed calls fail when the function is used.
func CreateProxy(ctx context.Context, transport types.Transport, target string, options ...Option) (*Proxy, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if target == "" {
		return nil, errors.New("target is required")
	}

	p := &Proxy{
		target:    target,
		transport: transport,
		state:     newState(target),
		maxPages:  DefaultMaxPages,
	}
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = logging.Logger
	}
	if p.maxPages <= 0 {
		return nil, errors.Errorf("max pages must be positive, got %d", p.maxPages)
	}

	s, err := schema.Load(ctx, transport, target)
	if err != nil {
		return nil, err
	}
	p.schema = s
	p.fieldOrders = NewFieldOrderRegistry(s)
	p.invoker = &actionInvoker{
		target:      target,
		schema:      s,
		transport:   transport,
		fieldOrders: p.fieldOrders,
		logger:      p.logger,
	}

	p.actions = make(map[string]ActionFunc, len(s.Actions))
	for _, a := range s.Actions {
		name := a.Name
		p.actions[name] = func(ctx context.Context, params ...any) (json.RawMessage, error) {
			return p.invoker.Invoke(ctx, p.state, name, params)
		}
	}

	p.tables = make(map[string]TableFunc, len(s.Tables)*MaxIndex)
	for _, t := range s.Tables {
		for index := 1; index <= MaxIndex; index++ {
			cursor := &queryCursor{
				target:    target,
				table:     t.Name,
				index:     index,
				transport: transport,
				maxPages:  p.maxPages,
				logger:    p.logger,
			}
			p.tables[cursor.name()] = func(ctx context.Context, params ...any) (*types.QueryResult, error) {
				return cursor.Query(ctx, p.state, params)
			}
		}
	}

	p.logger.Debug("proxy created",
		zap.String("target", target),
		zap.Int("actions", len(p.actions)),
		zap.Int("table_functions", len(p.tables)),
	)
	return p, nil
}

// TableFunctionName names the function reading table through index; the primary
// index (1) has no suffix so it cannot clash with a same-named action's variants.
func TableFunctionName(table string, index int) string {
	if index <= 1 {
		return table
	}
	return fmt.Sprintf("%s_%d", table, index)
}

func (p *Proxy) Target() string {
	return p.target
}

func (p *Proxy) Schema() *types.InterfaceSchema {
	return p.schema
}

// Action returns the generated function of the named action.
func (p *Proxy) Action(name string) (ActionFunc, bool) {
	fn, ok := p.actions[name]
	return fn, ok
}

// Table returns the generated function named like "items" or "items_2".
func (p *Proxy) Table(name string) (TableFunc, bool) {
	fn, ok := p.tables[name]
	return fn, ok
}

// ActionNames returns the generated action function names, sorted.
func (p *Proxy) ActionNames() []string {
	return sortedKeys(p.actions)
}

// TableFunctions returns the generated table function names, sorted.
func (p *Proxy) TableFunctions() []string {
	return sortedKeys(p.tables)
}

// Invoke calls the named action function.
func (p *Proxy) Invoke(ctx context.Context, action string, params ...any) (json.RawMessage, error) {
	fn, ok := p.actions[action]
	if !ok {
		return nil, &types.CallError{Target: p.target, Function: action, Err: types.ErrUnknownAction}
	}
	return fn(ctx, params...)
}

// InvokeStruct calls action with the fields of the Go struct s as positional parameters.
func (p *Proxy) InvokeStruct(ctx context.Context, action string, s any) (json.RawMessage, error) {
	params, err := util.StructAsArgs(s)
	if err != nil {
		return nil, errors.Wrapf(err, "action '%s'", action)
	}
	return p.Invoke(ctx, action, params...)
}

// BuildParams validates params for action and returns the object that would be pushed,
// without calling the transport.
func (p *Proxy) BuildParams(action string, params ...any) (types.ActionParams, error) {
	return p.invoker.Build(action, params)
}

// Query calls the named table function.
func (p *Proxy) Query(ctx context.Context, function string, params ...any) (*types.QueryResult, error) {
	fn, ok := p.tables[function]
	if !ok {
		return nil, &types.CallError{Target: p.target, Function: function, Err: types.ErrUnknownTable}
	}
	return fn(ctx, params...)
}

// SetSigner sets the identity actions are pushed with. types.Contract, types.Self and ""
// reset it to the target.
func (p *Proxy) SetSigner(identity string) {
	p.state.SetSigner(identity)
}

// ResetSigner makes the target sign its own actions again.
func (p *Proxy) ResetSigner() {
	p.state.SetSigner(types.Contract)
}

func (p *Proxy) Signer() string {
	return p.state.Signer()
}

// SetScope sets the scope table is read under until changed; the default sentinels reset it.
func (p *Proxy) SetScope(table, scope string) error {
	if _, ok := p.schema.Table(table); !ok {
		return &types.CallError{Target: p.target, Function: table, Err: types.ErrUnknownTable}
	}
	p.state.SetScope(table, scope)
	return nil
}

func (p *Proxy) Scope(table string) string {
	return p.state.Scope(table)
}

// IndexConfig returns the key configuration stored for (table, index).
func (p *Proxy) IndexConfig(table string, index int) types.IndexConfig {
	return p.state.IndexConfig(table, index)
}

// DeclareFieldOrder lets struct-typed parameters of structName be passed as lists.
func (p *Proxy) DeclareFieldOrder(structName string, fields ...string) error {
	return p.fieldOrders.Declare(structName, fields)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
