package parse

import (
	"strings"
	"unicode"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/ir"

	"github.com/tailscale/hujson"
)

// Document parses base document text.  The text must hold exactly one JSON
// value.
func Document(text []byte, opts ...ParseOption) (ir.Document, error) {
	pOpts := makeOpts(opts)
	d, err := pOpts.standardize(text)
	if err != nil {
		return ir.Null(), &Error{Input: BaseInput, Err: err}
	}
	v, err := ir.Decode(d)
	if err != nil {
		if debug.Parse() {
			debug.Logf("base document did not parse: %v\n", err)
		}
		return ir.Null(), &Error{Input: BaseInput, Err: err}
	}
	return ir.NewDocument(v), nil
}

// Operations parses patch text into its operations, in source order.  The
// text must hold a JSON array; its elements are not checked beyond being JSON.
func Operations(text []byte, opts ...ParseOption) ([]ir.Operation, error) {
	pOpts := makeOpts(opts)
	d, err := pOpts.standardize(text)
	if err != nil {
		return nil, &Error{Input: PatchInput, Err: err}
	}
	if !pOpts.keepSpace {
		d = []byte(StripSpace(string(d)))
	}
	ops, err := ir.DecodeOperations(d)
	if err != nil {
		if debug.Parse() {
			debug.Logf("patch did not parse: %v\n", err)
		}
		return nil, &Error{Input: PatchInput, Err: err}
	}
	if debug.Parse() {
		debug.Logf("parsed %d operations\n", len(ops))
	}
	return ops, nil
}

// Inputs parses both session inputs.  Nothing is returned unless both parse.
func Inputs(base, patch string, opts ...ParseOption) (ir.Document, []ir.Operation, error) {
	d, err := Document([]byte(base), opts...)
	if err != nil {
		return ir.Null(), nil, err
	}
	ops, err := Operations([]byte(patch), opts...)
	if err != nil {
		return ir.Null(), nil, err
	}
	return d, ops, nil
}

// StripSpace removes every whitespace character from s, counting the byte
// order mark as whitespace.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\ufeff' {
			return -1
		}
		return r
	}, s)
}

func (o *parseOpts) standardize(text []byte) ([]byte, error) {
	if !o.lenient {
		return text, nil
	}
	// a line comment must end in a newline
	d := make([]byte, len(text), len(text)+1)
	copy(d, text)
	return hujson.Standardize(append(d, '\n'))
}
