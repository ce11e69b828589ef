package keymap

import (
	"sort"
	"strings"
)

// Clipboard is the opaque clipboard collaborator referenced by the
// 'copy'/'paste' actions: a plain UTF-8 text buffer, distinct from
// teletype.ClipboardProvider's OSC 52 selector/byte-slice contract,
// and declared independently so this package has no dependency on
// the core.
type Clipboard interface {
	Get() string
	Set(data string)
}

// ActionKind names the outcome of a successful Translate.
type ActionKind int

const (
	// ActionNone means no rule matched; the caller should fall back to
	// its own default key handling (e.g. literal character input).
	ActionNone ActionKind = iota
	// ActionEmit means Bytes should be written to the PTY.
	ActionEmit
	// ActionCopy means the caller should copy its current selection
	// text into the clipboard; Translate cannot do this itself because
	// the selection lives in the core, not the keymap.
	ActionCopy
	// ActionPaste means Bytes (already bracketed-paste wrapped if that
	// mode was requested) should be written to the PTY.
	ActionPaste
)

// Action is the result of a successful Translate call.
type Action struct {
	Kind  ActionKind
	Bytes []byte
}

// Keymap is a compiled, indexed set of rules.
type Keymap struct {
	byFirstKey map[string][]*compiledRule
}

// Compile parses src and indexes every parsed rule by its first key
// symbol. A rule with a syntax error is dropped; a rule with unknown
// symbols is kept with them unresolved. Compile still returns a usable
// Keymap together with a non-nil error describing every such problem,
// so a caller can choose to log and continue rather than fail startup
// over one bad line.
func Compile(src string) (*Keymap, error) {
	rules, err := compileRules(src)
	k := &Keymap{byFirstKey: make(map[string][]*compiledRule)}
	for i := range rules {
		r := &rules[i]
		if len(r.pattern) == 0 {
			continue
		}
		first := r.pattern[0].key
		k.byFirstKey[first] = append(k.byFirstKey[first], r)
	}
	for _, bucket := range k.byFirstKey {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].precond != nil && bucket[j].precond == nil
		})
	}
	return k, err
}

// Translate looks up rules keyed by seq[0].Key and returns the first
// whose full pattern matches seq under flagIsSet, preferring
// preconditioned (more specific) rules over unconditioned ones within
// the same first key — see Compile's bucket ordering.
// clip and bracketedPaste resolve an ActionPaste's bytes inline when
// clip is non-nil; pass nil to let the caller fetch clipboard content
// itself (e.g. when the clipboard read must happen on a UI thread).
func (k *Keymap) Translate(seq []KeyEvent, flagIsSet func(name string) bool, clip Clipboard, bracketedPaste bool) Action {
	if len(seq) == 0 {
		return Action{}
	}
	candidates := k.byFirstKey[seq[0].Key]
	for _, r := range candidates {
		if !r.tryMatch(seq, flagIsSet) {
			continue
		}
		switch r.kind {
		case actionCopy:
			return Action{Kind: ActionCopy}
		case actionPaste:
			a := Action{Kind: ActionPaste}
			if clip != nil {
				a.Bytes = wrapPaste(clip.Get(), bracketedPaste)
			}
			return a
		default:
			var sb strings.Builder
			for _, item := range r.emit {
				sb.WriteString(item.bytes)
			}
			return Action{Kind: ActionEmit, Bytes: []byte(sb.String())}
		}
	}
	return Action{}
}

// wrapPaste wraps data in the bracketed-paste markers (ESC[200~ ...
// ESC[201~) when bracketedPaste is set.
func wrapPaste(data string, bracketedPaste bool) []byte {
	if !bracketedPaste {
		return []byte(data)
	}
	var sb strings.Builder
	sb.WriteString("\x1b[200~")
	sb.WriteString(data)
	sb.WriteString("\x1b[201~")
	return []byte(sb.String())
}
