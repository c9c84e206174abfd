package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ananthakrishna-hs/patchstep/ir"
)

var (
	outMu sync.Mutex
	out   io.Writer = os.Stderr
)

// SetOutput redirects log output and returns the previous sink.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := out
	out = w
	return prev
}

func Output() io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	return out
}

// Logf writes a diagnostic line.  JSON values, documents and operations
// among args are rendered as indented JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case map[string]any, []any, json.Number:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case ir.Document:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("[raw document] %v", x.Value())
				continue
			}
			args[i] = string(d)
		case ir.Operation:
			args[i] = x.String()
		case bool, string, float64, int:

		default:
		}
	}
	fmt.Fprintf(Output(), msg, args...)
}
