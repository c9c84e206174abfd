package encode

import (
	"bytes"
	"strings"

	"github.com/ananthakrishna-hs/patchstep/ir"
)

func MustString(d ir.Document, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(d, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
