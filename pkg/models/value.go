package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// Kind discriminates the variants of a Value.
type Kind uint8

const (
	// KindAbsent marks a value that was looked up but not present. It is
	// distinct from KindNull, which is an explicit null in the source.
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	// KindFunction carries the verbatim source text of a function value.
	// It is terminal: the function behind it is never invoked again.
	KindFunction
)

// Value is the structural representation of anything recovered from a
// container: scalars, sequences, insertion-ordered mappings, and inert
// function sources. Mappings keep their entries in the order the source
// object declared them, which matters for rule normalization.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  float64
	Str     string
	Seq     []Value
	Entries []Entry
	Source  string
}

// Entry is one key/value pair of a mapping Value.
type Entry struct {
	Key   string
	Value Value
}

func Absent() Value               { return Value{Kind: KindAbsent} }
func Null() Value                 { return Value{Kind: KindNull} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func StringValue(s string) Value  { return Value{Kind: KindString, Str: s} }

func SequenceValue(seq []Value) Value {
	if seq == nil {
		seq = []Value{}
	}
	return Value{Kind: KindSequence, Seq: seq}
}

func MappingValue(entries []Entry) Value {
	if entries == nil {
		entries = []Entry{}
	}
	return Value{Kind: KindMapping, Entries: entries}
}

func FunctionValue(source string) Value {
	return Value{Kind: KindFunction, Source: source}
}

// IsAbsent reports whether the value is the explicit absent marker.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Get looks up a key on a mapping value. The second return is false when
// the value is not a mapping or the key is not present.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMapping {
		return Absent(), false
	}
	for _, entry := range v.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Absent(), false
}

// MarshalJSON renders the value as plain JSON. Mappings keep their
// insertion order, function values render as a FunctionDescriptor object
// and both null and absent render as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Number)
	case KindString:
		return json.Marshal(v.Str)
	case KindSequence:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.Seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			encoded, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindMapping:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, entry := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(entry.Key)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			encoded, err := entry.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case KindFunction:
		return json.Marshal(struct {
			IsFunction bool   `json:"isFunction"`
			Source     string `json:"source"`
		}{IsFunction: true, Source: v.Source})
	default:
		return []byte("null"), nil
	}
}
