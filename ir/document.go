package ir

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/mitchellh/copystructure"
)

// Document is a decoded JSON value: one of map[string]any, []any, string,
// json.Number, bool or nil.
//
// A Document owns its value.  Value returns a deep copy so callers can never
// reach the state held by a session.
type Document struct {
	v any
}

// NewDocument wraps a copy of v.
func NewDocument(v any) Document {
	return Document{v: deepCopy(v)}
}

// Null returns the null document.
func Null() Document {
	return Document{}
}

func (d Document) Value() any {
	return deepCopy(d.v)
}

func (d Document) Type() Type {
	return TypeOf(d.v)
}

func (d Document) Clone() Document {
	return Document{v: deepCopy(d.v)}
}

// Equal reports whether d and o hold structurally identical values.
func (d Document) Equal(o Document) bool {
	return reflect.DeepEqual(d.v, o.v)
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.v)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	d.v = v
	return nil
}

func (d Document) String() string {
	data, err := json.Marshal(d.v)
	if err != nil {
		return "<invalid document>"
	}
	return string(data)
}

// Decode decodes exactly one JSON value from data, keeping numbers in their
// textual form.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if rest := bytes.TrimLeft(data[dec.InputOffset():], " \t\r\n"); len(rest) != 0 {
		return nil, ErrTrailingData
	}
	return v, nil
}

func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return copystructure.Must(copystructure.Copy(v))
}
