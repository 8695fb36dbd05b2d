//go:build !windows

package core

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WatchTerminal feeds terminal widths into vp on every SIGWINCH until ctx ends.
func WatchTerminal(ctx context.Context, vp *Viewport, fd int) {
	vp.Set(TerminalWidth(fd, vp.Width()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			vp.Set(TerminalWidth(fd, vp.Width()))
		}
	}
}
