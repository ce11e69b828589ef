package teletype

import (
	"log"
	"os"
)

// Logger receives the package's recoverable-error reports: Tracef gets
// the parser's Protocol errors and unhandled-sequence notes, Errorf gets
// the IoLoop's ring-overflow reports. Keymap rule errors are not logged
// here: keymap.Compile returns them to its caller. A Teletype that
// isn't given one via WithLogger uses stdLogger, which writes to stderr.
type Logger interface {
	Tracef(format string, args ...any)
	Errorf(format string, args ...any)
}

// stdLogger implements Logger over the standard library's log package.
type stdLogger struct {
	trace *log.Logger
	err   *log.Logger
}

func newStdLogger() *stdLogger {
	return &stdLogger{
		trace: log.New(os.Stderr, "teletype: trace: ", log.LstdFlags),
		err:   log.New(os.Stderr, "teletype: error: ", log.LstdFlags),
	}
}

func (l *stdLogger) Tracef(format string, args ...any) { l.trace.Printf(format, args...) }
func (l *stdLogger) Errorf(format string, args ...any) { l.err.Printf(format, args...) }

// NoopLogger discards all log output.
type NoopLogger struct{}

func (NoopLogger) Tracef(string, ...any) {}
func (NoopLogger) Errorf(string, ...any) {}

var _ Logger = (*stdLogger)(nil)
var _ Logger = NoopLogger{}
