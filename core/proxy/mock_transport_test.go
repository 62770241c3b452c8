package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"go.uber.org/zap"
)

// mockTransport implements types.Transport for testing
type mockTransport struct {
	fetchSchemaFunc  func(ctx context.Context, target string) (json.RawMessage, error)
	invokeActionFunc func(ctx context.Context, target string, action string, params types.ActionParams, signer string) (json.RawMessage, error)
	queryTableFunc   func(ctx context.Context, target string, req types.QueryRequest) (json.RawMessage, error)

	invocations []invocation
	queries     []types.QueryRequest
}

type invocation struct {
	target string
	action string
	params types.ActionParams
	signer string
}

var _ types.Transport = (*mockTransport)(nil)

func (m *mockTransport) FetchSchema(ctx context.Context, target string) (json.RawMessage, error) {
	if m.fetchSchemaFunc != nil {
		return m.fetchSchemaFunc(ctx, target)
	}
	return json.RawMessage(testABI), nil
}

func (m *mockTransport) InvokeAction(ctx context.Context, target string, action string, params types.ActionParams, signer string) (json.RawMessage, error) {
	m.invocations = append(m.invocations, invocation{target, action, params, signer})
	if m.invokeActionFunc != nil {
		return m.invokeActionFunc(ctx, target, action, params, signer)
	}
	return json.RawMessage(`{"transaction_id":"00"}`), nil
}

func (m *mockTransport) QueryTable(ctx context.Context, target string, req types.QueryRequest) (json.RawMessage, error) {
	m.queries = append(m.queries, req)
	if m.queryTableFunc != nil {
		return m.queryTableFunc(ctx, target, req)
	}
	return json.RawMessage(`{"rows":[],"more":false,"next_key":""}`), nil
}

// pagedTable serves pages in order and reports more=true on all but the last
func pagedTable(pages ...[]string) func(ctx context.Context, target string, req types.QueryRequest) (json.RawMessage, error) {
	served := 0
	return func(ctx context.Context, target string, req types.QueryRequest) (json.RawMessage, error) {
		if served >= len(pages) {
			return nil, fmt.Errorf("unexpected page request %d", served+1)
		}
		rows := pages[served]
		served++
		more := served < len(pages)
		next := ""
		if more {
			next = fmt.Sprintf("key%d", served)
		}
		page := map[string]any{"rows": toRawRows(rows), "more": more, "next_key": next}
		data, err := json.Marshal(page)
		return data, err
	}
}

func toRawRows(rows []string) []json.RawMessage {
	out := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		out[i] = json.RawMessage(r)
	}
	return out
}

const testTarget = "meta.hg3"

const testABI = `{
	"version": "eosio::abi/1.2",
	"structs": [
		{"name": "setitem", "base": "", "fields": [
			{"name": "id", "type": "uint64"},
			{"name": "name", "type": "string"},
			{"name": "price", "type": "asset"}
		]},
		{"name": "position", "base": "", "fields": [
			{"name": "x", "type": "int32"},
			{"name": "y", "type": "int32"}
		]},
		{"name": "move", "base": "", "fields": [
			{"name": "player", "type": "name"},
			{"name": "to", "type": "position"},
			{"name": "path", "type": "position[]"}
		]},
		{"name": "clear", "base": "", "fields": []},
		{"name": "item", "base": "", "fields": [
			{"name": "id", "type": "uint64"},
			{"name": "name", "type": "string"}
		]},
		{"name": "player", "base": "", "fields": [
			{"name": "account", "type": "name"},
			{"name": "score", "type": "uint64"}
		]}
	],
	"actions": [
		{"name": "setitem", "type": "setitem", "ricardian_contract": ""},
		{"name": "move", "type": "move", "ricardian_contract": ""},
		{"name": "clear", "type": "clear", "ricardian_contract": ""}
	],
	"tables": [
		{"name": "items", "index_type": "i64", "key_names": [], "key_types": [], "type": "item"},
		{"name": "players", "index_type": "i64", "key_names": [], "key_types": [], "type": "player"}
	]
}`

func newTestProxy(t *testing.T, m *mockTransport, opts ...Option) *Proxy {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	p, err := CreateProxy(context.Background(), m, testTarget, opts...)
	require.NoError(t, err)
	return p
}
