package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionalQueryOptions(t *testing.T) {
	t.Run("first argument sets both bounds", func(t *testing.T) {
		opts, err := PositionalQueryOptions([]any{7})
		require.NoError(t, err)
		assert.Equal(t, "7", *opts.Lower)
		assert.Equal(t, "7", *opts.Upper)
		assert.Nil(t, opts.Limit)
	})

	t.Run("all slots", func(t *testing.T) {
		opts, err := PositionalQueryOptions([]any{"a", "z", 10, "dohplayer1", 3, true, true, false, 500})
		require.NoError(t, err)
		want := QueryOptions{
			Lower:     Ptr("a"),
			Upper:     Ptr("z"),
			Limit:     Ptr(10),
			Scope:     Ptr("dohplayer1"),
			PageLimit: Ptr(3),
			Binary:    Ptr(true),
			Reverse:   Ptr(true),
			ShowPayer: Ptr(false),
			TimeLimit: Ptr(500),
		}
		if diff := cmp.Diff(want, opts); diff != "" {
			t.Errorf("options mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		_, err := PositionalQueryOptions([]any{1, 2, 3, "s", 1, false, false, false, 1, "extra"})
		assert.ErrorIs(t, err, ErrInvalidQueryArgument)
	})

	t.Run("wrong slot type", func(t *testing.T) {
		_, err := PositionalQueryOptions([]any{1, 2, "ten"})
		assert.ErrorIs(t, err, ErrInvalidQueryArgument)

		_, err = PositionalQueryOptions([]any{1, 2, 3, "s", 1, "maybe"})
		assert.ErrorIs(t, err, ErrInvalidQueryArgument)
	})

	t.Run("float bounds from decoded JSON", func(t *testing.T) {
		opts, err := PositionalQueryOptions([]any{float64(42)})
		require.NoError(t, err)
		assert.Equal(t, "42", *opts.Lower)
	})
}

func TestParseQueryOptions(t *testing.T) {
	t.Run("camel case and hyphenated keys", func(t *testing.T) {
		opts, err := ParseQueryOptions(map[string]any{
			"lower":       "b",
			"limit":       float64(5),
			"pageLimit":   2,
			"show-payer":  true,
			"time-limit":  "100",
			"key-type":    "i64",
			"encodeType":  "dec",
			"reverse":     "true",
			"scope":       nil,
			"upper":       json.Number("99"),
			"binary":      false,
		})
		require.NoError(t, err)
		assert.Equal(t, "b", *opts.Lower)
		assert.Equal(t, "99", *opts.Upper)
		assert.Equal(t, 5, *opts.Limit)
		assert.Equal(t, 2, *opts.PageLimit)
		assert.True(t, *opts.ShowPayer)
		assert.Equal(t, 100, *opts.TimeLimit)
		assert.Equal(t, "i64", *opts.KeyType)
		assert.Equal(t, "dec", *opts.EncodeType)
		assert.True(t, *opts.Reverse)
		assert.False(t, *opts.Binary)
		assert.Equal(t, "", *opts.Scope)
		assert.True(t, opts.HasBound())
		assert.True(t, opts.HasIndexConfig())
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := ParseQueryOptions(map[string]any{"lowr": 1})
		assert.ErrorIs(t, err, ErrInvalidQueryArgument)
	})
}

func TestQueryOptionsMerge(t *testing.T) {
	base := QueryOptions{Lower: Ptr("1"), Upper: Ptr("1"), Limit: Ptr(10)}
	base.Merge(QueryOptions{Upper: Ptr("5")})
	base.Merge(QueryOptions{Upper: Ptr("9"), Reverse: Ptr(true)})

	assert.Equal(t, "1", *base.Lower)
	assert.Equal(t, "9", *base.Upper)
	assert.Equal(t, 10, *base.Limit)
	assert.True(t, *base.Reverse)
	assert.False(t, base.HasIndexConfig())
}

func TestDecodeRows(t *testing.T) {
	type item struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	result := &QueryResult{Rows: []json.RawMessage{
		json.RawMessage(`{"id":1,"name":"sword"}`),
		json.RawMessage(`{"id":2,"name":"shield"}`),
	}}

	rows, err := DecodeRows[item](result)
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "sword"}, {2, "shield"}}, rows)

	rows, err = DecodeRows[item](nil)
	assert.NoError(t, err)
	assert.Nil(t, rows)

	_, err = DecodeRows[item](&QueryResult{Rows: []json.RawMessage{json.RawMessage(`"00ff"`)}})
	assert.Error(t, err)
}
