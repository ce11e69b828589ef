package teletype

import "errors"

// ErrClosed is returned by IoLoop operations after the underlying
// descriptor has been closed.
var ErrClosed = errors.New("teletype: closed")

// ErrProtocol marks a recoverable malformed-input condition: an unknown
// CSI/DEC/OSC code, an argument overflow, or an invalid escape sequence.
// The parser always returns to its Normal state after one; no cursor or
// line mutation results. Protocol errors are logged, never returned from
// Write.
var ErrProtocol = errors.New("teletype: protocol error")

// ErrKeymapRule names the keymap rule-error category at the package
// level. Nothing in this package returns or wraps it: the keymap
// subpackage reports its rule errors with keymap.ErrRule.
var ErrKeymapRule = errors.New("teletype: keymap rule error")

// ProtocolError wraps ErrProtocol with the offending byte/state context.
type ProtocolError struct {
	State string
	Byte  byte
	Msg   string
}

func (e *ProtocolError) Error() string {
	return "teletype: protocol error: " + e.Msg
}

func (e *ProtocolError) Unwrap() error { return ErrProtocol }

func newProtocolError(state string, b byte, msg string) *ProtocolError {
	return &ProtocolError{State: state, Byte: b, Msg: msg}
}
