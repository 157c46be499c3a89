package invoice

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineItems(t *testing.T) {
	t.Run("native slice is returned unchanged", func(t *testing.T) {
		items := []LineItem{{Description: strPtr("A")}, {Description: strPtr("B")}}
		got := ParseLineItems(items)
		assert.Equal(t, items, got)
	})

	t.Run("json array string", func(t *testing.T) {
		got := ParseLineItems(`[{"description":"A","amount":10}]`)
		require.Len(t, got, 1)
		assert.Equal(t, "A", *got[0].Description)
		assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(10)))
		assert.Nil(t, got[0].Quantity)
	})

	t.Run("json raw message and bytes", func(t *testing.T) {
		raw := json.RawMessage(`[{"quantity":"2","unit_price":1.5}]`)
		got := ParseLineItems(raw)
		require.Len(t, got, 1)
		assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(2)))

		assert.Len(t, ParseLineItems([]byte(`[{}, {}]`)), 2)
	})

	t.Run("array encoded as json string", func(t *testing.T) {
		raw := json.RawMessage(`"[{\"description\":\"A\",\"amount\":\"5\"}]"`)
		got := ParseLineItems(raw)
		require.Len(t, got, 1)
		assert.Equal(t, "A", *got[0].Description)
		assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(5)))

		assert.Len(t, ParseLineItems(` "[{},{}]" `), 2)
	})

	t.Run("generic decoded array", func(t *testing.T) {
		got := ParseLineItems([]any{map[string]any{"description": "X"}})
		require.Len(t, got, 1)
		assert.Equal(t, "X", *got[0].Description)
	})

	degraded := map[string]any{
		"nil":              nil,
		"json object":      `{"description":"A"}`,
		"json number":      `42`,
		"json null":        `null`,
		"invalid json":     `[{"description":`,
		"array of scalar":  `[1,2]`,
		"empty string":     ``,
		"string of object": `"{\"description\":\"A\"}"`,
		"broken string":    `"[{}]`,
		"integer":          7,
		"nil typed slice":  []LineItem(nil),
	}
	for name, raw := range degraded {
		t.Run(name+" degrades to empty", func(t *testing.T) {
			got := ParseLineItems(raw)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestMarshalLineItems(t *testing.T) {
	data, err := MarshalLineItems(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = MarshalLineItems([]LineItem{{Description: strPtr("A"), Amount: decPtr("10")}})
	require.NoError(t, err)
	assert.Len(t, ParseLineItems(data), 1)
}
