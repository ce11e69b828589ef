package keymap

// KeyEvent is one key press in a chord sequence: a named key plus the
// modifiers held while it was pressed.
type KeyEvent struct {
	Key  string
	Mods ModMask
}

// matchState names the states of the rule-matching state machine:
// begin -> flag -> flagval -> plus -> key -> map -> emit -> done. This
// module collapses flag/flagval/plus/key/map into a single comparison
// loop per rule (they describe one linear scan, not branching states)
// while keeping the name for the two meaningful checkpoints a caller
// can observe: whether the precondition held, and whether the whole
// pattern matched.
type matchState int

const (
	matchBegin matchState = iota
	matchChecked
	matchDone
)

// tryMatch reports whether r matches seq exactly under the given flag
// source: the optional precondition holds, every chord's key and
// modifier mask matches positionally, and the consumed key count
// equals len(seq).
func (r *compiledRule) tryMatch(seq []KeyEvent, flagIsSet func(name string) bool) bool {
	state := matchBegin
	if r.precond != nil {
		state = matchChecked
		if flagIsSet(r.precond.name) != r.precond.want {
			return false
		}
	}
	if len(r.pattern) != len(seq) {
		return false
	}
	for i, c := range r.pattern {
		if c.key != seq[i].Key || c.mods != seq[i].Mods {
			return false
		}
	}
	state = matchDone
	return state == matchDone
}
