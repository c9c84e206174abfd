package ir

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Operation is one element of a JSON Patch array.  It is kept exactly as it
// was written so that a malformed record reaches the patch library, which is
// the only judge of validity.
type Operation struct {
	raw json.RawMessage
	v   any
}

// NewOperation decodes a single patch record.  The record need not be an
// object.
func NewOperation(raw []byte) (Operation, error) {
	v, err := Decode(raw)
	if err != nil {
		return Operation{}, err
	}
	c := bytes.TrimSpace(raw)
	return Operation{raw: slices.Clone(c), v: v}, nil
}

// Raw returns a copy of the record as written.
func (o Operation) Raw() json.RawMessage {
	return slices.Clone(o.raw)
}

// Document returns the record as a document, for rendering.
func (o Operation) Document() Document {
	return NewDocument(o.v)
}

func (o Operation) Op() string {
	return o.str("op")
}

func (o Operation) Path() string {
	return o.str("path")
}

func (o Operation) From() string {
	return o.str("from")
}

// Value returns the "value" member and whether it is present.
func (o Operation) Value() (any, bool) {
	m, ok := o.v.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m["value"]
	if !ok {
		return nil, false
	}
	return deepCopy(v), true
}

// Fields returns a copy of the record members, or nil when the record is not
// an object.
func (o Operation) Fields() map[string]any {
	m, ok := o.v.(map[string]any)
	if !ok {
		return nil
	}
	return deepCopy(m).(map[string]any)
}

func (o Operation) str(k string) string {
	m, ok := o.v.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[k].(string)
	return s
}

func (o Operation) Equal(p Operation) bool {
	return bytes.Equal(o.raw, p.raw)
}

func (o Operation) MarshalJSON() ([]byte, error) {
	if o.raw == nil {
		return []byte("null"), nil
	}
	return o.Raw(), nil
}

func (o *Operation) UnmarshalJSON(data []byte) error {
	p, err := NewOperation(data)
	if err != nil {
		return err
	}
	*o = p
	return nil
}

func (o Operation) String() string {
	if o.raw == nil {
		return "null"
	}
	return string(o.raw)
}

// DecodeOperations decodes a JSON array of patch records in order.
func DecodeOperations(data []byte) ([]Operation, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if _, ok := v.([]any); !ok {
		return nil, ErrNotArray
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	res := make([]Operation, 0, len(raws))
	for _, r := range raws {
		op, err := NewOperation(r)
		if err != nil {
			return nil, err
		}
		res = append(res, op)
	}
	return res, nil
}
