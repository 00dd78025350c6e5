package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is one metadata value: null, bool, number, string, a list of values or a nested
// mapping. Numbers keep their JSON text so large integers survive a round trip.
type Value struct {
	kind ValueKind
	b    bool
	num  json.Number
	str  string
	list []Value
	m    Metadata
}

// Metadata is the free-form bag attached to an entry.
type Metadata map[string]Value

func NullValue() Value            { return Value{kind: KindNull} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func ListValue(vs ...Value) Value { return Value{kind: KindList, list: vs} }
func MapValue(m Metadata) Value   { return Value{kind: KindMap, m: m} }

func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatFloat(n, 'g', -1, 64))}
}

func IntValue(n int64) Value {
	return Value{kind: KindNumber, num: json.Number(strconv.FormatInt(n, 10))}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

func (v Value) AsMap() (Metadata, bool) {
	return v.m, v.kind == KindMap
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		return v.m.MarshalJSON()
	default:
		return nil, fmt.Errorf("metadata: unknown value kind %d", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decodeUseNumber(data)
	if err != nil {
		return err
	}
	*v = valueFrom(raw)
	return nil
}

// MarshalJSON always produces an object; a nil Metadata encodes as {}.
// Keys are written in sorted order so persisted documents are stable.
func (m Metadata) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := m[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON coerces anything that is not a JSON object into the empty mapping.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	raw, err := decodeUseNumber(data)
	if err != nil {
		return err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		*m = Metadata{}
		return nil
	}
	*m = metadataFrom(obj)
	return nil
}

func decodeUseNumber(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func metadataFrom(obj map[string]any) Metadata {
	m := make(Metadata, len(obj))
	for k, raw := range obj {
		m[k] = valueFrom(raw)
	}
	return m
}

func valueFrom(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(x)
	case json.Number:
		return Value{kind: KindNumber, num: x}
	case string:
		return StringValue(x)
	case []any:
		list := make([]Value, len(x))
		for i, item := range x {
			list[i] = valueFrom(item)
		}
		return ListValue(list...)
	case map[string]any:
		return MapValue(metadataFrom(x))
	default:
		return NullValue()
	}
}
