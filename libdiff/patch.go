package libdiff

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ananthakrishna-hs/patchstep/ir"

	"github.com/wI2L/jsondiff"
)

// Patch computes a JSON Patch that turns from into to.  An empty result means
// the documents are equal.
func Patch(from, to ir.Document) ([]ir.Operation, error) {
	a, err := json.Marshal(from)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(to)
	if err != nil {
		return nil, err
	}
	p, err := jsondiff.CompareJSON(a, b, jsondiff.UnmarshalFunc(unmarshalNumbers))
	if err != nil {
		return nil, fmt.Errorf("error diffing documents: %w", err)
	}
	if len(p) == 0 {
		return nil, nil
	}
	d, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return ir.DecodeOperations(d)
}

// unmarshalNumbers keeps numbers as json.Number so that integers beyond
// float64 precision survive the diff.
func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
