package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Apply   bool
	Queue   bool
	Session bool
	Render  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("PATCHSTEP_DEBUG_PARSE")
	d.Apply = boolEnv("PATCHSTEP_DEBUG_APPLY")
	d.Queue = boolEnv("PATCHSTEP_DEBUG_QUEUE")
	d.Session = boolEnv("PATCHSTEP_DEBUG_SESSION")
	d.Render = boolEnv("PATCHSTEP_DEBUG_RENDER")
	if boolEnv("PATCHSTEP_DEBUG") {
		SetAll(true)
	}
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// SetAll turns every debug flag on or off.
func SetAll(v bool) {
	d.Parse = v
	d.Apply = v
	d.Queue = v
	d.Session = v
	d.Render = v
}

func Parse() bool {
	return d.Parse
}
func Apply() bool {
	return d.Apply
}
func Queue() bool {
	return d.Queue
}
func Session() bool {
	return d.Session
}
func Render() bool {
	return d.Render
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(Output(), "%v\n", v)
		return
	}
	w := Output()
	w.Write(d)
	w.Write([]byte{'\n'})
}
