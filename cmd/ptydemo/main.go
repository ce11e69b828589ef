// Command ptydemo drives a real shell through a teletype.Teletype,
// exercising the full PTY -> IoLoop -> Parser -> LineStore path against
// the host's own terminal. It puts stdin into raw mode, forks the
// shell named by $SHELL with github.com/creack/pty, and prints the
// visible grid to stdout once, when the session ends.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	teletype "github.com/cuttylabs/teletype"
)

// ptyHandle adapts *os.File (as returned by creack/pty) to the
// teletype.PTY collaborator contract: an io.ReadWriteCloser plus
// SetWinsize.
type ptyHandle struct {
	*os.File
}

func (h ptyHandle) SetWinsize(rows, cols, pixW, pixH int) error {
	return pty.Setsize(h.File, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
		X:    uint16(pixW),
		Y:    uint16(pixH),
	})
}

var _ teletype.PTY = ptyHandle{}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	rows, cols := 24, 80
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		cols, rows = w, h
	}

	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("start pty: %w", err)
	}
	defer master.Close()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("make raw: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	tt := teletype.New(teletype.WithSize(rows, cols))
	loop := teletype.NewIoLoop(ptyHandle{master}, tt, 0, nil)
	tt.SetResponse(loop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH, os.Interrupt)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGWINCH {
				if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
					tt.SetWinsize(h, w, 0, 0)
					ptyHandle{master}.SetWinsize(h, w, 0, 0)
				}
				continue
			}
			cancel()
			return
		}
	}()

	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				loop.Output(buf[:n])
			}
			if err != nil {
				cancel()
				return
			}
		}
	}()

	go func() {
		_ = cmd.Wait()
		cancel()
	}()

	err = loop.Run(ctx)
	loop.Close()

	render(tt)
	return err
}

// render prints the current visible grid as plain text, demonstrating
// the renderer-collaborator read path: UpdateOffsets, VisibleToLogical,
// GetLine.
func render(tt *teletype.Teletype) {
	tt.UpdateOffsets()
	var b strings.Builder
	for row := 0; row < tt.VisRows(); row++ {
		lline, _ := tt.VisibleToLogical(tt.TopRow() + row)
		text, err := tt.LineText(lline)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
