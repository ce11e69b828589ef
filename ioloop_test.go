package teletype

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// pipePTY is a minimal in-process PTY double built on an io.Pipe: it
// deliberately does not implement Fd(), so IoLoop always falls back to
// runBlocking regardless of platform.
type pipePTY struct {
	readFrom *io.PipeReader
	writeTo  *io.PipeWriter

	mu     sync.Mutex
	closed bool
	writes [][]byte
}

func newPipePTY() (*pipePTY, *io.PipeWriter, *io.PipeReader) {
	pr, pw := io.Pipe()   // feeds into the PTY's Read
	outR, outW := io.Pipe() // captures what IoLoop writes to the PTY
	p := &pipePTY{readFrom: pr, writeTo: outW}
	return p, pw, outR
}

func (p *pipePTY) Read(b []byte) (int, error) { return p.readFrom.Read(b) }

func (p *pipePTY) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.writes = append(p.writes, append([]byte(nil), b...))
	p.mu.Unlock()
	return p.writeTo.Write(b)
}

func (p *pipePTY) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	p.readFrom.Close()
	return p.writeTo.Close()
}

func (p *pipePTY) SetWinsize(rows, cols, pixW, pixH int) error { return nil }

var _ PTY = (*pipePTY)(nil)

func TestIoLoopFeedsInputIntoTeletype(t *testing.T) {
	pty, stdin, stdout := newPipePTY()
	tt := New(WithSize(5, 10))
	loop := NewIoLoop(pty, tt, 4096, NoopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- loop.Run(ctx) }()

	go func() {
		stdin.Write([]byte("hi"))
	}()

	deadline := time.After(2 * time.Second)
	for {
		if txt, _ := tt.LineText(0); txt == "hi" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for input to reach the Teletype")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := loop.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("Close: %v", err)
	}
	cancel()
	<-runErr
	_ = stdout
}

func TestIoLoopOutputDrainsToOutput(t *testing.T) {
	pty, _, stdout := newPipePTY()
	tt := New(WithSize(5, 10))
	loop := NewIoLoop(pty, tt, 4096, NoopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	n, err := loop.Output([]byte("ack"))
	if err != nil || n != 3 {
		t.Fatalf("Output() = (%d, %v), want (3, nil)", n, err)
	}

	buf := make([]byte, 3)
	readDone := make(chan struct{})
	var got []byte
	go func() {
		io.ReadFull(stdout, buf)
		got = buf
		close(readDone)
	}()
	select {
	case <-readDone:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for queued output to reach the PTY")
	}
	if string(got) != "ack" {
		t.Fatalf("PTY received %q, want %q", got, "ack")
	}
	cancel()
	loop.Close()
}

func TestIoLoopOutputAfterCloseReturnsErrClosed(t *testing.T) {
	pty, _, _ := newPipePTY()
	tt := New(WithSize(5, 10))
	loop := NewIoLoop(pty, tt, 4096, NoopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	loop.Close()

	if _, err := loop.Output([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Fatalf("Output after Close: got %v, want ErrClosed", err)
	}
}
