package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/format"
	"github.com/ananthakrishna-hs/patchstep/ir"

	"github.com/goccy/go-yaml"
)

type EncState struct {
	depth, indent int
	prefix        string
	wire          bool

	format format.Format
	Color  func(ir.Type, ColorAttr, string) string
}

// Encode writes d to w followed by a newline.
//
// The tree format is a read-only outline of the value: object members sorted
// by key, array elements labelled by index, scalars as JSON literals, and no
// type or size annotations.
func Encode(d ir.Document, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if debug.Render() {
		debug.Logf("encoding %s document as %s\n", d.Type(), es.format)
	}
	switch es.format {
	case format.JSONFormat:
		return encodeJSON(d, w, es)
	case format.YAMLFormat:
		return encodeYAML(d, w, es)
	default:
		if err := encodeTree(d.Value(), w, es); err != nil {
			return err
		}
		return writeString(w, "\n")
	}
}

func encodeJSON(d ir.Document, w io.Writer, es *EncState) error {
	var (
		data []byte
		err  error
	)
	if es.wire {
		data, err = json.Marshal(d)
	} else {
		data, err = json.MarshalIndent(d, es.prefix, strings.Repeat(" ", es.indent))
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func encodeYAML(d ir.Document, w io.Writer, es *EncState) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	y, err := yaml.JSONToYAML(data)
	if err != nil {
		return fmt.Errorf("error converting to yaml: %w", err)
	}
	y = bytes.TrimRight(y, "\n")
	lines := strings.Split(string(y), "\n")
	for i, ln := range lines {
		if i > 0 {
			if err := writeString(w, es.prefix); err != nil {
				return err
			}
		}
		if err := writeString(w, ln+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func encodeTree(v any, w io.Writer, es *EncState) error {
	switch x := v.(type) {
	case map[string]any:
		return encodeObject(x, w, es)
	case []any:
		return encodeArray(x, w, es)
	default:
		return encodeScalar(v, w, es)
	}
}

func encodeObject(m map[string]any, w io.Writer, es *EncState) error {
	if len(m) == 0 {
		return writeString(w, paint(es, ir.ObjectType, SepColor, "{}"))
	}
	if err := writeString(w, paint(es, ir.ObjectType, SepColor, "{")); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	es.depth++
	for _, k := range keys {
		if err := writeNL(w, es); err != nil {
			return err
		}
		field := paint(es, ir.ObjectType, FieldColor, fieldString(k))
		if err := writeString(w, field+paint(es, ir.ObjectType, SepColor, ":")+" "); err != nil {
			return err
		}
		if err := encodeTree(m[k], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, paint(es, ir.ObjectType, SepColor, "}"))
}

func encodeArray(a []any, w io.Writer, es *EncState) error {
	if len(a) == 0 {
		return writeString(w, paint(es, ir.ArrayType, SepColor, "[]"))
	}
	if err := writeString(w, paint(es, ir.ArrayType, SepColor, "[")); err != nil {
		return err
	}
	es.depth++
	for i, e := range a {
		if err := writeNL(w, es); err != nil {
			return err
		}
		idx := paint(es, ir.ArrayType, IndexColor, strconv.Itoa(i))
		if err := writeString(w, idx+paint(es, ir.ArrayType, SepColor, ":")+" "); err != nil {
			return err
		}
		if err := encodeTree(e, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, paint(es, ir.ArrayType, SepColor, "]"))
}

func encodeScalar(v any, w io.Writer, es *EncState) error {
	t := ir.TypeOf(v)
	var s string
	switch x := v.(type) {
	case nil:
		s = "null"
	case string:
		s = strconv.Quote(x)
	case json.Number:
		s = x.String()
	default:
		d, err := json.Marshal(x)
		if err != nil {
			return err
		}
		s = string(d)
	}
	return writeString(w, paint(es, t, ValueColor, s))
}

func fieldString(k string) string {
	if k == "" {
		return `""`
	}
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '$', r == '.':
		default:
			return strconv.Quote(k)
		}
	}
	return k
}

func paint(es *EncState, t ir.Type, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(t, a, s)
}

func writeNL(w io.Writer, es *EncState) error {
	return writeString(w, "\n"+es.prefix+strings.Repeat(" ", es.depth*es.indent))
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
