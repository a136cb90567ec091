// file:arbor/mod/m_tree/tree_type/payload.go
package tree_type

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"gorm.io/gorm/schema"
)

//---------------------
// Payload Codec
//---------------------

// PayloadSerializer stores payload maps as JSON text. Whole numbers decode
// to int, other numbers to float64, so a payload reads back the way it was
// written.
type PayloadSerializer struct{}

func init() {
	schema.RegisterSerializer("payload", PayloadSerializer{})
}

func (PayloadSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue any) error {
	payload := map[string]any{}
	var raw []byte
	switch v := dbValue.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tree_type: unsupported payload column value %T", dbValue)
	}
	if len(raw) > 0 {
		p, err := DecodePayload(raw)
		if err != nil {
			return err
		}
		payload = p
	}
	return field.Set(ctx, dst, payload)
}

func (PayloadSerializer) Value(_ context.Context, _ *schema.Field, _ reflect.Value, fieldValue any) (any, error) {
	if m, ok := fieldValue.(map[string]any); ok && m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(fieldValue)
	if err != nil {
		return nil, fmt.Errorf("tree_type: encode payload: %w", err)
	}
	return string(raw), nil
}

// DecodePayload parses a JSON object, keeping whole numbers as int.
func DecodePayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("tree_type: decode payload: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return normalize(out).(map[string]any), nil
}

// NormalizePayload gives p the shape it has after a store round trip.
func NormalizePayload(p map[string]any) (map[string]any, error) {
	if p == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("tree_type: encode payload: %w", err)
	}
	return DecodePayload(raw)
}

func normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}
