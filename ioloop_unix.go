//go:build unix

package teletype

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// fder is implemented by PTYs that expose a pollable file descriptor
// (the common case on Unix, via *os.File embedding). A PTY that
// doesn't implement it falls back to blocking Read/Write in their own
// goroutines.
type fder interface {
	Fd() uintptr
}

const pollTimeoutMillis = 200

// runPlatform is the Unix implementation of IoLoop.Run: a single
// goroutine polls the PTY descriptor for read/write readiness and
// shuttles bytes through the rings. Falling back to blocking
// I/O in per-direction goroutines when the PTY isn't pollable keeps
// the loop usable with test doubles that only implement io.ReadWriter.
func (l *IoLoop) runPlatform(ctx context.Context) error {
	fd, ok := l.pty.(fder)
	if !ok {
		return l.runBlocking(ctx)
	}

	pollFd := int(fd.Fd())
	readBuf := make([]byte, 4096)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		l.mu.Lock()
		closed := l.closed
		wantWrite := !l.out.Empty()
		l.mu.Unlock()
		if closed {
			return nil
		}

		events := int16(unix.POLLIN)
		if wantWrite {
			events |= unix.POLLOUT
		}
		fds := []unix.PollFd{{Fd: int32(pollFd), Events: events}}

		n, err := unix.Poll(fds, pollTimeoutMillis)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			l.setErr(err)
			return err
		}
		if n == 0 {
			continue
		}

		re := fds[0].Revents
		if re&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			nr, err := l.pty.Read(readBuf)
			if nr > 0 {
				l.mu.Lock()
				if l.in.Push(readBuf[:nr]) < nr {
					l.logger.Errorf("input ring full, dropping PTY bytes")
				}
				l.mu.Unlock()
				l.drainInput()
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				l.setErr(err)
				return err
			}
		}
		if re&unix.POLLOUT != 0 {
			l.mu.Lock()
			data := l.out.ContiguousData()
			l.mu.Unlock()
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

