//go:build !unix

package teletype

import "context"

// runPlatform falls back to the blocking pump on non-Unix platforms,
// where golang.org/x/sys/unix.Poll isn't available.
func (l *IoLoop) runPlatform(ctx context.Context) error {
	return l.runBlocking(ctx)
}
