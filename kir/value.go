package kir

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/buger/jsonparser"

	"github.com/teranos/kirgen/errors"
)

// Kind is the JSON type of a Value
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is a decoded JSON value. Objects keep their document key order so
// that regenerated table and dict literals list keys the way they were written.
type Value struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Raw    string // number text as written
	Str    string
	Items  []Value
	Fields []Field
}

// Field is one key of an object Value
type Field struct {
	Key   string
	Value Value
}

// Get returns the value stored under key in an object. Duplicate keys
// resolve to the first occurrence.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// GetString returns the string under key, or "" when absent or not a string
func (v Value) GetString(key string) string {
	if f, ok := v.Get(key); ok && f.Kind == String {
		return f.Str
	}
	return ""
}

// Len returns the number of array items or object fields
func (v Value) Len() int {
	switch v.Kind {
	case Array:
		return len(v.Items)
	case Object:
		return len(v.Fields)
	}
	return 0
}

// IsInteger reports whether a number has no fractional part
func (v Value) IsInteger() bool {
	return v.Kind == Number && !math.IsInf(v.Num, 0) && v.Num == math.Trunc(v.Num)
}

// Int returns a number value or a numeric string as an int
func (v Value) Int() (int, bool) {
	switch v.Kind {
	case Number:
		if v.IsInteger() {
			return int(v.Num), true
		}
	case String:
		if n, err := strconv.Atoi(v.Str); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Text returns a string value unchanged and any other value as compact JSON.
// Used for KIR fields that hold source text but are sometimes written as
// bare JSON (e.g. an initial_value of 0 instead of "0").
func (v Value) Text() string {
	switch v.Kind {
	case String:
		return v.Str
	case Null:
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// MarshalJSON encodes the value preserving object key order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case Number:
		if v.Raw != "" {
			buf.WriteString(v.Raw)
		} else {
			buf.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
		}
	case String:
		data, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(data)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// Interface converts the value into plain Go values (map[string]interface{},
// []interface{}, float64, ...). Key order is lost.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case Bool:
		return v.Bool
	case Number:
		return v.Num
	case String:
		return v.Str
	case Array:
		out := make([]interface{}, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.Fields))
		for _, f := range v.Fields {
			if _, dup := out[f.Key]; !dup {
				out[f.Key] = f.Value.Interface()
			}
		}
		return out
	}
	return nil
}

// ParseValue decodes one JSON document into a Value
func ParseValue(data []byte) (Value, error) {
	// jsonparser does not reject trailing garbage or unbalanced input
	if !json.Valid(data) {
		return Value{}, errors.NewMalformedError("invalid JSON")
	}

	raw, dt, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, errors.NewMalformedError("%v", err)
	}
	return fromParsed(raw, dt)
}

func fromParsed(raw []byte, dt jsonparser.ValueType) (Value, error) {
	switch dt {
	case jsonparser.Null:
		return Value{Kind: Null}, nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, errors.NewMalformedError("%v", err)
		}
		return Value{Kind: Bool, Bool: b}, nil

	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Value{}, errors.NewMalformedError("number %q", raw)
		}
		return Value{Kind: Number, Num: f, Raw: string(raw)}, nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, errors.NewMalformedError("%v", err)
		}
		return Value{Kind: String, Str: s}, nil

	case jsonparser.Array:
		out := Value{Kind: Array, Items: []Value{}}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(item []byte, itemType jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			v, err := fromParsed(item, itemType)
			if err != nil {
				inner = err
				return
			}
			out.Items = append(out.Items, v)
		})
		if inner != nil {
			return Value{}, inner
		}
		if err != nil {
			return Value{}, errors.NewMalformedError("%v", err)
		}
		return out, nil

	case jsonparser.Object:
		out := Value{Kind: Object, Fields: []Field{}}
		// ObjectEach hands over keys already unescaped
		err := jsonparser.ObjectEach(raw, func(key, item []byte, itemType jsonparser.ValueType, _ int) error {
			v, err := fromParsed(item, itemType)
			if err != nil {
				return err
			}
			out.Fields = append(out.Fields, Field{Key: string(key), Value: v})
			return nil
		})
		if err != nil {
			if errors.Is(err, errors.ErrMalformed) {
				return Value{}, err
			}
			return Value{}, errors.NewMalformedError("%v", err)
		}
		return out, nil
	}

	return Value{}, errors.Newf("unsupported JSON value type %v", dt)
}
