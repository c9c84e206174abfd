package queue

import "strconv"

// Selection is either no selection or the index of a pending operation.
// The zero value is no selection.
type Selection struct {
	index int
	ok    bool
}

func None() Selection {
	return Selection{}
}

func At(i int) Selection {
	return Selection{index: i, ok: true}
}

// Index returns the selected index and whether there is a selection.
func (s Selection) Index() (int, bool) {
	return s.index, s.ok
}

func (s Selection) IsNone() bool {
	return !s.ok
}

// Is reports whether s selects i.
func (s Selection) Is(i int) bool {
	return s.ok && s.index == i
}

func (s Selection) String() string {
	if !s.ok {
		return "none"
	}
	return strconv.Itoa(s.index)
}
