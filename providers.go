package teletype

import "io"

// ResponseProvider receives synthesized reply bytes (DSR cursor
// position reports and similar) that the core writes back towards the
// PTY. Typically wired to IoLoop.Output, which enqueues into the
// output ring.
type ResponseProvider = io.Writer

// NoopResponse discards all response bytes.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// TitleProvider reacts to window title changes (OSC 0, 1, 2) and the
// xterm title-stack commands (OSC 22 push, OSC 23 pop). PushTitle and
// PopTitle take no argument: the provider owns the stack itself, the
// core only forwards the notification.
type TitleProvider interface {
	// SetTitle is called when the title changes.
	SetTitle(title string)
	// PushTitle saves the current title to the stack.
	PushTitle()
	// PopTitle restores the title from the stack.
	PopTitle()
}

// NoopTitle ignores title changes.
type NoopTitle struct{}

func (NoopTitle) SetTitle(string) {}
func (NoopTitle) PushTitle()      {}
func (NoopTitle) PopTitle()       {}

// BellProvider reacts to BEL. The core itself only logs the bell; a
// host may still want to ring a physical one.
type BellProvider interface {
	Ring()
}

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// ClipboardProvider handles OSC 52 clipboard read/write requests.
// clipboard selects which buffer: 'c' for the system clipboard, 'p'
// for the primary selection.
type ClipboardProvider interface {
	// Read returns content from the specified clipboard.
	Read(clipboard byte) string
	// Write stores content to the specified clipboard.
	Write(clipboard byte, data []byte)
}

// NoopClipboard discards writes and returns empty reads.
type NoopClipboard struct{}

func (NoopClipboard) Read(byte) string   { return "" }
func (NoopClipboard) Write(byte, []byte) {}

// PTY is the process collaborator contract. Forking/exec'ing the
// child process is out of core scope; the core only requires an
// io.ReadWriteCloser-shaped duplex plus resize. cmd/ptydemo provides a
// concrete Unix implementation over github.com/creack/pty.
type PTY interface {
	io.ReadWriteCloser
	// SetWinsize resizes the child's controlling terminal and signals
	// its process group (SIGWINCH on Unix).
	SetWinsize(rows, cols, pixW, pixH int) error
}

var (
	_ ResponseProvider  = NoopResponse{}
	_ TitleProvider     = NoopTitle{}
	_ BellProvider      = NoopBell{}
	_ ClipboardProvider = NoopClipboard{}
)
