// Package filter selects patch operations with expr-lang expressions.
//
// An expression sees one operation at a time through these names:
//
//	index   position in the pending queue
//	op      the "op" member, "" when absent
//	path    the "path" member
//	from    the "from" member
//	value   the "value" member, nil when absent
//	record  all members of the record
//
// and may call under(pointer, prefix), which reports whether pointer is
// prefix or a JSON Pointer below it.  For example
//
//	op == "remove" && under(path, "/config")
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ananthakrishna-hs/patchstep/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type Env struct {
	Index  int            `expr:"index"`
	Op     string         `expr:"op"`
	Path   string         `expr:"path"`
	From   string         `expr:"from"`
	Value  any            `expr:"value"`
	Record map[string]any `expr:"record"`
}

// Predicate is a compiled expression.
type Predicate struct {
	src     string
	program *vm.Program
}

func Compile(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	program, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("error compiling %q: %w", src, err)
	}
	return &Predicate{src: src, program: program}, nil
}

func (p *Predicate) String() string {
	return p.src
}

// Match evaluates the predicate for the operation at index.
func (p *Predicate) Match(index int, op ir.Operation) (bool, error) {
	res, err := vm.Run(p.program, NewEnv(index, op))
	if err != nil {
		return false, fmt.Errorf("error evaluating %q: %w", p.src, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, not bool", p.src, res)
	}
	return b, nil
}

// First returns the index of the first operation matching p, or -1.
func (p *Predicate) First(ops []ir.Operation) (int, error) {
	for i, op := range ops {
		ok, err := p.Match(i, op)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func NewEnv(index int, op ir.Operation) Env {
	env := Env{
		Index: index,
		Op:    op.Op(),
		Path:  op.Path(),
		From:  op.From(),
	}
	if v, ok := op.Value(); ok {
		env.Value = toExprValue(v)
	}
	if fields := op.Fields(); fields != nil {
		env.Record = toExprValue(fields).(map[string]any)
	} else {
		env.Record = map[string]any{}
	}
	return env
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("under", func(params ...any) (any, error) {
			return Under(params[0].(string), params[1].(string)), nil
		},
			new(func(string, string) bool)),
	}
}

// Under reports whether path equals prefix or names a location inside it.
func Under(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// numbers reach expressions as int or float64 so that comparisons with
// literals work.
func toExprValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i)
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		res := make([]any, len(x))
		for i := range x {
			res[i] = toExprValue(x[i])
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, e := range x {
			res[k] = toExprValue(e)
		}
		return res
	default:
		return v
	}
}
