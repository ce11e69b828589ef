package teletype

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// IoLoop pumps bytes between a PTY and a Teletype through two fixed
// ring buffers: input flows PTY -> ring -> Teletype.Write;
// output flows Write -> ring -> PTY. Each chunk read from the PTY is
// pushed into the input ring and drained into the Teletype straight
// away. The read loop does not wait for ring space: bytes that do not
// fit in the input ring are dropped and an error is logged.
type IoLoop struct {
	pty PTY
	tty *Teletype

	mu      sync.Mutex
	in      *ring
	out     *ring
	outCond *sync.Cond

	logger Logger

	closed bool
	done   chan struct{}
	err    error
}

// NewIoLoop creates an IoLoop over pty feeding tty, with ring buffers
// of ringSize bytes each (ringSize<=0 uses defaultRingSize).
func NewIoLoop(pty PTY, tty *Teletype, ringSize int, logger Logger) *IoLoop {
	if logger == nil {
		logger = NoopLogger{}
	}
	l := &IoLoop{
		pty:    pty,
		tty:    tty,
		in:     newRing(ringSize),
		out:    newRing(ringSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	l.outCond = sync.NewCond(&l.mu)
	return l
}

// Output queues p for writing to the PTY. Write delegates to it, so an
// IoLoop can be passed directly as teletype.WithResponse's target (DSR
// replies loop back out through the same ring as keymap output).
func (l *IoLoop) Output(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	n := l.out.Push(p)
	if n < len(p) {
		l.logger.Errorf("output ring full, dropping %d bytes", len(p)-n)
	}
	l.outCond.Signal()
	return n, nil
}

// Write is Output under the io.Writer method name.
func (l *IoLoop) Write(p []byte) (int, error) { return l.Output(p) }

var _ io.Writer = (*IoLoop)(nil)

// Close shuts down the loop and closes the underlying PTY.
func (l *IoLoop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	l.outCond.Broadcast()
	err := l.pty.Close()
	<-l.done
	return err
}

// Err returns the error that stopped the loop, if any (nil on a clean
// Close or context cancellation).
func (l *IoLoop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *IoLoop) setErr(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

// drainInput moves as much of the input ring as is available into the
// Teletype in one locked batch, coalescing bursty PTY output into a
// single Write instead of dispatching byte by byte.
func (l *IoLoop) drainInput() {
	l.mu.Lock()
	if l.in.Empty() {
		l.mu.Unlock()
		return
	}
	buf := make([]byte, l.in.Len())
	l.in.Pop(buf)
	l.mu.Unlock()
	l.tty.Write(buf)
}

// Run starts the platform read/write pump and blocks until ctx is
// canceled, Close is called, or the PTY returns a fatal I/O error. It
// is safe to call Run in its own goroutine; a separate goroutine
// should call Output/Close.
func (l *IoLoop) Run(ctx context.Context) error {
	defer close(l.done)
	return l.runPlatform(ctx)
}

// runBlocking is used for PTY collaborators that don't expose a
// pollable descriptor (e.g. in-process test doubles), and as the
// entire loop on platforms with no poll(2): one goroutine blocks on
// Read, the loop goroutine drains the output ring on a timer.
func (l *IoLoop) runBlocking(ctx context.Context) error {
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := l.pty.Read(buf)
			if n > 0 {
				l.mu.Lock()
				if l.in.Push(buf[:n]) < n {
					l.logger.Errorf("input ring full, dropping PTY bytes")
				}
				l.mu.Unlock()
				l.drainInput()
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			l.setErr(err)
			return err
		case <-ticker.C:
			l.mu.Lock()
			closed := l.closed
			data := l.out.ContiguousData()
			l.mu.Unlock()
			if closed {
				return nil
			}
			if len(data) > 0 {
				nw, err := l.pty.Write(data)
				l.mu.Lock()
				l.out.CommitRead(nw)
				l.mu.Unlock()
				if err != nil {
					l.setErr(err)
					return err
				}
			}
		}
	}
}
