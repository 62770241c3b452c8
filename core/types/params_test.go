package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionParamsMarshalKeepsOrder(t *testing.T) {
	params := ActionParams{
		{Name: "id", Value: 7},
		{Name: "name", Value: "sword"},
		{Name: "price", Value: "10.0000 X"},
		{Name: "attrs", Value: Named{"b": 2, "a": 1}},
	}

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Equal(t, `{"id":7,"name":"sword","price":"10.0000 X","attrs":{"a":1,"b":2}}`, string(data))

	assert.Equal(t, []string{"id", "name", "price", "attrs"}, params.Names())
	v, ok := params.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "sword", v)
	_, ok = params.Get("missing")
	assert.False(t, ok)
	assert.Len(t, params.Map(), 4)
}

func TestEmptyActionParamsMarshal(t *testing.T) {
	data, err := json.Marshal(ActionParams{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestParamUnion(t *testing.T) {
	n, ok := AsNamed(map[string]any{"a": 1})
	assert.True(t, ok)
	assert.Equal(t, Named{"a": 1}, n)

	_, ok = AsNamed([]any{1})
	assert.False(t, ok)

	p, ok := AsPositional([]any{1, "x"})
	assert.True(t, ok)
	assert.Equal(t, Positional{1, "x"}, p)

	_, ok = AsPositional("x")
	assert.False(t, ok)
}

func TestResolveIdentity(t *testing.T) {
	for _, sentinel := range []string{"", Contract, Self} {
		assert.Equal(t, "meta.hg3", ResolveIdentity(sentinel, "meta.hg3"), sentinel)
	}
	assert.Equal(t, "dohplayer1", ResolveIdentity("dohplayer1", "meta.hg3"))
	assert.Equal(t, "dohplayer1@owner", ResolveIdentity("dohplayer1@owner", "meta.hg3"))
}
