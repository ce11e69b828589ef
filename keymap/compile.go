package keymap

import (
	"errors"
	"fmt"
)

// ErrRule marks a recoverable rule-compilation error: an unknown
// symbol or unexpected token within a single rule. A rule with a syntax
// error is dropped from the compiled index; a rule whose only errors are
// unknown symbols is still compiled with those symbols unresolved, so it
// never matches a real key or emits nothing for them. Compilation of the
// remaining rules continues.
var ErrRule = errors.New("keymap: rule error")

type ruleError struct {
	line int
	msg  string
}

func (e *ruleError) Error() string { return fmt.Sprintf("keymap: line %d: %s", e.line, e.msg) }
func (e *ruleError) Unwrap() error { return ErrRule }

type chord struct {
	mods ModMask
	key  string
}

type emitKind int

const (
	emitCode emitKind = iota
	emitChar
	emitString
)

type emitItem struct {
	kind  emitKind
	bytes string
}

type actionKind int

const (
	actionEmit actionKind = iota
	actionCopy
	actionPaste
)

type precond struct {
	name string
	want bool
}

// compiledRule is one fully parsed, symbol-resolved rule.
type compiledRule struct {
	precond *precond
	pattern []chord
	kind    actionKind
	emit    []emitItem
}

// parser turns lexer tokens into compiledRule values, recovering to
// the next ';' after a malformed rule so one bad line never prevents
// the rest of the file from compiling.
type parser struct {
	lex  *lexer
	cur  token
	errs []error
}

func newParser(src string) *parser {
	p := &parser{lex: newLexer(src)}
	p.advance()
	return p
}

func (p *parser) advance() { p.cur = p.lex.next() }

func (p *parser) errorf(line int, format string, args ...any) {
	p.errs = append(p.errs, &ruleError{line: line, msg: fmt.Sprintf(format, args...)})
}

// recover skips tokens up to and including the next ';' (or EOF), so
// parsing can resume at the next rule.
func (p *parser) recover() {
	for p.cur.kind != tokSemi && p.cur.kind != tokEOF {
		p.advance()
	}
	if p.cur.kind == tokSemi {
		p.advance()
	}
}

// compileRules parses every rule in src, returning the rules that
// parsed (unknown symbols included) plus a joined error describing every
// syntax error and unknown symbol (nil if there were none).
func compileRules(src string) ([]compiledRule, error) {
	p := newParser(src)
	var rules []compiledRule
	for p.cur.kind != tokEOF {
		r, ok := p.parseRule()
		if ok {
			rules = append(rules, r)
		}
	}
	return rules, errors.Join(p.errs...)
}

func (p *parser) parseRule() (compiledRule, bool) {
	line := p.cur.line
	var r compiledRule

	if p.cur.kind == tokIdent && p.cur.text == "flag" {
		pc, ok := p.parsePrecond()
		if !ok {
			p.recover()
			return r, false
		}
		r.precond = &pc
	}

	pattern, ok := p.parsePattern()
	if !ok || len(pattern) == 0 {
		p.errorf(line, "empty or malformed key pattern")
		p.recover()
		return r, false
	}
	r.pattern = pattern

	if p.cur.kind != tokArrow {
		p.errorf(line, "expected '->' after key pattern")
		p.recover()
		return r, false
	}
	p.advance()

	kind, emit, ok := p.parseAction(line)
	if !ok {
		p.recover()
		return r, false
	}
	r.kind = kind
	r.emit = emit

	if p.cur.kind != tokSemi {
		p.errorf(line, "expected ';' to terminate rule")
		p.recover()
		return r, false
	}
	p.advance()
	return r, true
}

func (p *parser) parsePrecond() (precond, bool) {
	line := p.cur.line
	p.advance() // consume 'flag'
	if p.cur.kind != tokDot {
		p.errorf(line, "expected '.' after 'flag'")
		return precond{}, false
	}
	p.advance()
	if p.cur.kind != tokIdent {
		p.errorf(line, "expected flag name")
		return precond{}, false
	}
	name, known := flagNames[p.cur.text]
	if !known {
		p.errorf(p.cur.line, "unknown flag %q", p.cur.text)
	}
	p.advance()
	if p.cur.kind != tokEqual {
		p.errorf(line, "expected '=' in flag precondition")
		return precond{}, false
	}
	p.advance()
	if p.cur.kind != tokInt {
		p.errorf(line, "expected 0 or 1 after '='")
		return precond{}, false
	}
	want := p.cur.ival != 0
	p.advance()
	return precond{name: name, want: want}, true
}

func (p *parser) parsePattern() ([]chord, bool) {
	var chords []chord
	for p.cur.kind == tokIdent {
		c, ok := p.parseChord()
		if !ok {
			return chords, false
		}
		chords = append(chords, c)
		if p.cur.kind != tokIdent {
			break
		}
	}
	return chords, true
}

func (p *parser) parseChord() (chord, bool) {
	var c chord
	for {
		if p.cur.kind != tokIdent {
			return c, false
		}
		text := p.cur.text
		mask, isMod := modNames[text]
		// A bare identifier is the chord's key unless it is followed by
		// '+', which marks it as a modifier instead.
		save := p.cur
		p.advance()
		if p.cur.kind == tokPlus && isMod {
			c.mods |= mask
			p.advance()
			continue
		}
		if !keyNames[text] {
			p.errorf(save.line, "unknown key %q", text)
		}
		c.key = text
		return c, true
	}
}

func (p *parser) parseAction(line int) (actionKind, []emitItem, bool) {
	if p.cur.kind != tokIdent {
		p.errorf(line, "expected an action ('emit', 'copy', or 'paste')")
		return 0, nil, false
	}
	switch p.cur.text {
	case "copy":
		p.advance()
		return actionCopy, nil, true
	case "paste":
		p.advance()
		return actionPaste, nil, true
	case "emit":
		p.advance()
		var items []emitItem
		for {
			item, ok, more := p.parseEmitItem()
			if !ok {
				return 0, nil, false
			}
			items = append(items, item)
			if !more {
				break
			}
		}
		if len(items) == 0 {
			p.errorf(line, "'emit' requires at least one item")
			return 0, nil, false
		}
		return actionEmit, items, true
	default:
		p.errorf(line, "unknown action %q", p.cur.text)
		return 0, nil, false
	}
}

// parseEmitItem parses one code.X / char.X / "literal" item. more
// reports whether another item can follow (i.e. the next token still
// looks like an item rather than ';').
func (p *parser) parseEmitItem() (emitItem, bool, bool) {
	switch p.cur.kind {
	case tokString:
		item := emitItem{kind: emitString, bytes: p.cur.text}
		p.advance()
		return item, true, p.cur.kind != tokSemi
	case tokIdent:
		ns := p.cur.text
		line := p.cur.line
		if ns != "code" && ns != "char" {
			p.errorf(line, "expected 'code', 'char', or a string literal in 'emit'")
			return emitItem{}, false, false
		}
		p.advance()
		if p.cur.kind != tokDot {
			p.errorf(line, "expected '.' after %q", ns)
			return emitItem{}, false, false
		}
		p.advance()
		if p.cur.kind != tokIdent {
			p.errorf(line, "expected a symbol name after '%s.'", ns)
			return emitItem{}, false, false
		}
		name := p.cur.text
		var item emitItem
		if ns == "code" {
			v, ok := codeNames[name]
			if !ok {
				p.errorf(p.cur.line, "unknown code %q", name)
			}
			item = emitItem{kind: emitCode, bytes: v}
		} else {
			v, ok := charNames[name]
			if !ok {
				p.errorf(p.cur.line, "unknown char %q", name)
			}
			item = emitItem{kind: emitChar, bytes: string(v)}
		}
		p.advance()
		return item, true, p.cur.kind != tokSemi
	default:
		p.errorf(p.cur.line, "unexpected token in 'emit'")
		return emitItem{}, false, false
	}
}
