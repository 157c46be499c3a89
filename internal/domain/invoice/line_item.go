package invoice

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is a single row on an invoice. All fields are optional.
type LineItem struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

// ParseLineItems reads line items from whatever shape they were persisted in.
// A native slice is returned unchanged and a JSON array is decoded, also when
// it was double-encoded as a JSON string. Anything else (other JSON values,
// malformed JSON, nil) yields an empty slice.
func ParseLineItems(raw any) []LineItem {
	switch v := raw.(type) {
	case []LineItem:
		if v == nil {
			return []LineItem{}
		}
		return v
	case string:
		return decodeLineItems([]byte(v))
	case []byte:
		return decodeLineItems(v)
	case json.RawMessage:
		return decodeLineItems(v)
	case []any:
		data, err := json.Marshal(v)
		if err != nil {
			return []LineItem{}
		}
		return decodeLineItems(data)
	default:
		return []LineItem{}
	}
}

func decodeLineItems(data []byte) []LineItem {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return []LineItem{}
		}
		data = bytes.TrimSpace([]byte(inner))
	}
	if len(data) == 0 || data[0] != '[' {
		return []LineItem{}
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		return []LineItem{}
	}
	return items
}

// MarshalLineItems serializes line items for storage as a JSON array
func MarshalLineItems(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}
