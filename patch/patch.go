// Package patch applies JSON Patch operations to documents.
//
// The RFC 6902 semantics (pointer resolution, the six operations, test
// failures) belong entirely to github.com/evanphx/json-patch; this package
// only moves documents in and out of it and types its failures.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/ir"

	jsonpatch "github.com/evanphx/json-patch"
)

var ErrApply = errors.New("patch does not apply")

// ApplyError reports an operation that could not be applied.  It matches
// ErrApply with errors.Is.
type ApplyError struct {
	Op  ir.Operation
	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrApply, e.Op, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

func (e *ApplyError) Is(target error) bool {
	return target == ErrApply
}

// Applier applies a sequence of operations to a document, returning a new
// document.  The input document is never modified.
type Applier interface {
	Apply(ops []ir.Operation, doc ir.Document) (ir.Document, error)
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func([]ir.Operation, ir.Document) (ir.Document, error)

func (f ApplierFunc) Apply(ops []ir.Operation, doc ir.Document) (ir.Document, error) {
	return f(ops, doc)
}

// JSONPatch is the Applier backed by evanphx/json-patch.
type JSONPatch struct{}

func (JSONPatch) Apply(ops []ir.Operation, doc ir.Document) (ir.Document, error) {
	if len(ops) == 0 {
		return doc.Clone(), nil
	}
	if debug.Apply() {
		debug.Logf("applying %d operation(s) to %v\n", len(ops), doc)
	}
	d, err := json.Marshal(doc)
	if err != nil {
		return ir.Null(), err
	}
	res := d
	// one at a time so that a failure can name the operation at fault
	for _, op := range ops {
		p, err := decode(op)
		if err != nil {
			return ir.Null(), &ApplyError{Op: op, Err: err}
		}
		res, err = applyOne(p, res)
		if err != nil {
			if debug.Apply() {
				debug.Logf("operation %s failed: %v\n", op, err)
			}
			return ir.Null(), &ApplyError{Op: op, Err: err}
		}
	}
	v, err := ir.Decode(res)
	if err != nil {
		return ir.Null(), fmt.Errorf("error decoding patched document: %w", err)
	}
	return ir.NewDocument(v), nil
}

func decode(op ir.Operation) (jsonpatch.Patch, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('[')
	buf.Write(op.Raw())
	buf.WriteByte(']')
	return jsonpatch.DecodePatch(buf.Bytes())
}

// applyOne converts a panic inside the library (it has some on documents
// such as null) into an error.
func applyOne(p jsonpatch.Patch, d []byte) (res []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", errLibraryPanic, r)
		}
	}()
	return p.Apply(d)
}

var errLibraryPanic = errors.New("json-patch panicked")

// Apply applies ops with the default Applier.
func Apply(ops []ir.Operation, doc ir.Document) (ir.Document, error) {
	return JSONPatch{}.Apply(ops, doc)
}
