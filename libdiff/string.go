package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type LineKind int

const (
	LineEqual LineKind = iota
	LineInsert
	LineDelete
)

// Line is one line of a line-oriented text diff.
type Line struct {
	Kind LineKind
	Text string
}

func (l Line) String() string {
	switch l.Kind {
	case LineInsert:
		return "+ " + l.Text
	case LineDelete:
		return "- " + l.Text
	default:
		return "  " + l.Text
	}
}

// DiffLines diffs from and to line by line.  Every line of both inputs
// appears exactly once in the result, in order.
func DiffLines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	var res []Line
	for _, diff := range diffs {
		kind := LineEqual
		switch diff.Type {
		case diffpatch.DiffInsert:
			kind = LineInsert
		case diffpatch.DiffDelete:
			kind = LineDelete
		}
		for _, text := range splitLines(diff.Text) {
			res = append(res, Line{Kind: kind, Text: text})
		}
	}
	return res
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Kind != LineEqual {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
