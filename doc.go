// Package teletype implements the headless core of a graphical terminal
// emulator: the pseudo-terminal byte stream, the ANSI/VT/xterm
// escape-sequence parser, a packed scrollback line store with an LRU-style
// decode cache, and the cursor/scroll-region/SGR semantics that drive it.
//
// This package owns no window, no font, no GPU draw list. Rendering,
// windowing, and keyboard/mouse input are external collaborators reached
// through small interfaces (see providers.go and the keymap subpackage).
//
// # Quick Start
//
//	tt := teletype.New(teletype.WithSize(24, 80))
//	tt.Write([]byte("\x1b[31mHello \x1b[32mWorld\x1b[0m!"))
//	line, _ := tt.LineText(0)
//	fmt.Println(line) // "Hello World!"
//
// # Architecture
//
//   - [Teletype]: cursor, scroll region, mode flags, CSI/OSC/SGR dispatch.
//   - [LineStore]: packed scrollback storage with a direct-mapped cache.
//   - the byte-level parser (parser.go): an unexported state machine
//     embedded directly in Teletype, since every transition ends in a
//     Teletype mutation with no independent state worth exposing.
//   - [IoLoop]: ring-buffered, non-blocking PTY read/write scheduling.
//   - the keymap subpackage: declarative keyboard-to-byte-sequence rules.
package teletype
