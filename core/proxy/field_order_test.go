package proxy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trufnetwork/abiproxy-go/core/schema"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

func newTestRegistry(t *testing.T) *FieldOrderRegistry {
	t.Helper()
	s, err := schema.Parse(json.RawMessage(testABI))
	require.NoError(t, err)
	return NewFieldOrderRegistry(s)
}

func TestFieldOrderDeclare(t *testing.T) {
	t.Run("accepts a permutation", func(t *testing.T) {
		r := newTestRegistry(t)
		require.NoError(t, r.Declare("setitem", []string{"price", "id", "name"}))
		order, ok := r.Order("setitem")
		require.True(t, ok)
		assert.Equal(t, []string{"price", "id", "name"}, order)
	})

	t.Run("redeclaring overwrites", func(t *testing.T) {
		r := newTestRegistry(t)
		require.NoError(t, r.Declare("position", []string{"x", "y"}))
		require.NoError(t, r.Declare("position", []string{"y", "x"}))
		order, _ := r.Order("position")
		assert.Equal(t, []string{"y", "x"}, order)
	})

	cases := []struct {
		name   string
		st     string
		fields []string
		want   error
	}{
		{"unknown struct", "nope", []string{"x"}, types.ErrUnknownStruct},
		{"too few fields", "position", []string{"x"}, types.ErrFieldCountMismatch},
		{"too many fields", "position", []string{"x", "y", "z"}, types.ErrFieldCountMismatch},
		{"misnamed field", "position", []string{"x", "z"}, types.ErrUnknownField},
		{"duplicated field", "position", []string{"x", "x"}, types.ErrDuplicateField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry(t)
			require.NoError(t, r.Declare("position", []string{"y", "x"}))

			err := r.Declare(tc.st, tc.fields)
			assert.ErrorIs(t, err, tc.want)

			order, ok := r.Order("position")
			require.True(t, ok, "previous declaration must survive")
			assert.Equal(t, []string{"y", "x"}, order)
		})
	}
}

func TestFieldOrderResolve(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("named value unchanged", func(t *testing.T) {
		in := map[string]any{"x": 1, "y": 2}
		out, err := r.Resolve("position", in)
		require.NoError(t, err)
		assert.Equal(t, types.Named(in), out)
	})

	t.Run("positional without order", func(t *testing.T) {
		_, err := r.Resolve("position", types.Positional{1, 2})
		assert.ErrorIs(t, err, types.ErrUnresolvedPositionalArray)
	})

	t.Run("positional zipped with declared order", func(t *testing.T) {
		require.NoError(t, r.Declare("position", []string{"y", "x"}))
		out, err := r.Resolve("position", []any{10, 20})
		require.NoError(t, err)
		assert.Equal(t, types.Named{"y": 10, "x": 20}, out)
	})

	t.Run("positional with wrong length", func(t *testing.T) {
		_, err := r.Resolve("position", types.Positional{1})
		assert.ErrorIs(t, err, types.ErrFieldCountMismatch)
	})

	t.Run("scalar", func(t *testing.T) {
		_, err := r.Resolve("position", 5)
		assert.ErrorIs(t, err, types.ErrNestedTypeMismatch)
	})
}
