package keymap

import "strings"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokDot
	tokEqual
	tokPlus
	tokArrow
	tokSemi
)

type token struct {
	kind tokenKind
	text string
	ival int
	line int
}

// lexState names one state of the rule-language scanner:
// Whitespace/Comment/Identifier/Integer/String/StringEscape.
// Punctuation and line ends are recognised from the Whitespace and
// Comment states.
type lexState int

const (
	lexWhitespace lexState = iota
	lexComment
	lexIdentifier
	lexInteger
	lexString
	lexStringEscape
)

// lexer tokenizes rule-language source text one byte at a time rather
// than using a regex- or bufio.Scanner-based approach, so the error
// line number stays meaningful for keymap-compile diagnostics.
type lexer struct {
	src   string
	pos   int
	line  int
	state lexState
	buf   strings.Builder
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, state: lexWhitespace}
}

func (l *lexer) peek() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
	}
	return b
}

// next returns the next token, or a tokEOF token at end of input.
func (l *lexer) next() token {
	for {
		b, ok := l.peek()
		if !ok {
			return token{kind: tokEOF, line: l.line}
		}
		startLine := l.line
		switch l.state {
		case lexWhitespace:
			switch {
			case b == ' ' || b == '\t' || b == '\r' || b == '\n':
				l.advance()
			case b == '#':
				l.state = lexComment
				l.advance()
			case b == '"':
				l.advance()
				l.buf.Reset()
				l.state = lexString
			case b >= '0' && b <= '9':
				l.buf.Reset()
				l.state = lexInteger
			case isIdentStart(b):
				l.buf.Reset()
				l.state = lexIdentifier
			case b == '.':
				l.advance()
				return token{kind: tokDot, line: startLine}
			case b == '=':
				l.advance()
				return token{kind: tokEqual, line: startLine}
			case b == '+':
				l.advance()
				return token{kind: tokPlus, line: startLine}
			case b == ';':
				l.advance()
				return token{kind: tokSemi, line: startLine}
			case b == '-':
				l.advance()
				if nb, ok := l.peek(); ok && nb == '>' {
					l.advance()
					return token{kind: tokArrow, line: startLine}
				}
				return token{kind: tokIdent, text: "-", line: startLine}
			default:
				l.advance() // drop unrecognized punctuation
			}
		case lexComment:
			l.advance()
			if b == '\n' {
				l.state = lexWhitespace
			}
		case lexIdentifier:
			if isIdentCont(b) {
				l.buf.WriteByte(b)
				l.advance()
			} else {
				l.state = lexWhitespace
				return token{kind: tokIdent, text: l.buf.String(), line: startLine}
			}
		case lexInteger:
			if b >= '0' && b <= '9' {
				l.buf.WriteByte(b)
				l.advance()
			} else {
				l.state = lexWhitespace
				n := 0
				for _, c := range l.buf.String() {
					n = n*10 + int(c-'0')
				}
				return token{kind: tokInt, ival: n, line: startLine}
			}
		case lexString:
			switch b {
			case '"':
				l.advance()
				l.state = lexWhitespace
				return token{kind: tokString, text: l.buf.String(), line: startLine}
			case '\\':
				l.advance()
				l.state = lexStringEscape
			default:
				l.buf.WriteByte(b)
				l.advance()
			}
		case lexStringEscape:
			switch b {
			case 'n':
				l.buf.WriteByte('\n')
			case 't':
				l.buf.WriteByte('\t')
			case '"', '\\':
				l.buf.WriteByte(b)
			default:
				l.buf.WriteByte(b)
			}
			l.advance()
			l.state = lexString
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '^' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
