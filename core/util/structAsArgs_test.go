package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

type position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type moveArgs struct {
	Player string   `validate:"required"`
	To     position
	Note   string
	skip   int
	Debug  bool     `abi:"-"`
	Tags   []string
}

func TestStructAsArgs(t *testing.T) {
	t.Run("fields in declaration order", func(t *testing.T) {
		args, err := StructAsArgs(moveArgs{Player: "dohplayer1", To: position{X: 3, Y: -1}, Tags: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, []any{
			"dohplayer1",
			types.Named{"x": int32(3), "y": int32(-1)},
			"",
			[]string{"a"},
		}, args)
	})

	t.Run("pointer to struct", func(t *testing.T) {
		args, err := StructAsArgs(&moveArgs{Player: "p"})
		require.NoError(t, err)
		assert.Len(t, args, 4)
	})

	t.Run("required field empty", func(t *testing.T) {
		_, err := StructAsArgs(moveArgs{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Player")
	})

	t.Run("marshaler values are kept", func(t *testing.T) {
		price, err := types.ParseAsset("10.0000 X")
		require.NoError(t, err)
		args, err := StructAsArgs(struct {
			ID    uint64
			Price types.Asset
		}{ID: 7, Price: price})
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.Equal(t, price.String(), args[1].(types.Asset).String())
	})

	t.Run("unsupported types", func(t *testing.T) {
		_, err := StructAsArgs(struct{ C chan int }{})
		assert.Error(t, err)

		_, err = StructAsArgs(42)
		assert.Error(t, err)

		var nilPtr *moveArgs
		_, err = StructAsArgs(nilPtr)
		assert.Error(t, err)
	})
}
