package view

import "github.com/ananthakrishna-hs/patchstep/session"

// Affordance is a user action offered in a given state.
type Affordance string

const (
	Start     Affordance = "start"
	Clear     Affordance = "clear"
	Reset     Affordance = "reset"
	ApplyNext Affordance = "next"
	Apply     Affordance = "apply"
	Reject    Affordance = "reject"
	Deselect  Affordance = "deselect"
)

// Affordances lists the actions valid in st, in display order.  Apply next
// is only offered when something is pending, and the selection actions only
// when something is selected.
func Affordances(st session.State) []Affordance {
	if st.Phase != session.Active || st.Queue == nil {
		return []Affordance{Start, Clear}
	}
	res := []Affordance{Reset}
	if st.Queue.CanApplyNext() {
		res = append(res, ApplyNext)
	}
	if !st.Queue.Selection.IsNone() {
		res = append(res, Apply, Reject, Deselect)
	}
	return res
}

// Offers reports whether a is among the actions valid in st.
func Offers(st session.State, a Affordance) bool {
	for _, x := range Affordances(st) {
		if x == a {
			return true
		}
	}
	return false
}
