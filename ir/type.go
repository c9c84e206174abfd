package ir

import (
	"encoding/json"
	"fmt"
)

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
)

func (t Type) String() string {
	s, ok := map[Type]string{
		ObjectType: "Object",
		ArrayType:  "Array",
		StringType: "String",
		NumberType: "Number",
		BoolType:   "Bool",
		NullType:   "Null",
	}[t]
	if ok {
		return s
	}
	return "<unknown type>"
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, ok := map[string]Type{
		"Null":   NullType,
		"Bool":   BoolType,
		"Number": NumberType,
		"String": StringType,
		"Array":  ArrayType,
		"Object": ObjectType,
	}[string(d)]
	if !ok {
		return fmt.Errorf("unrecognized type %q", d)
	}
	*t = tt
	return nil
}

func Types() []Type {
	return []Type{
		NullType,
		NumberType,
		StringType,
		BoolType,
		ObjectType,
		ArrayType,
	}
}

func (t Type) IsLeaf() bool {
	switch t {
	case ObjectType, ArrayType:
		return false
	default:
		return true
	}
}

// TypeOf reports the JSON type of a decoded value.  Values that did not
// come from a JSON decoder are reported by their closest JSON kind.
func TypeOf(v any) Type {
	switch v.(type) {
	case nil:
		return NullType
	case bool:
		return BoolType
	case string:
		return StringType
	case json.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return NumberType
	case []any:
		return ArrayType
	case map[string]any:
		return ObjectType
	}
	panic(fmt.Sprintf("ir: value of type %T is not a json value", v))
}
