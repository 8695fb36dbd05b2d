//go:build windows

package core

import (
	"context"
	"time"
)

// WatchTerminal polls the terminal width into vp until ctx ends.
func WatchTerminal(ctx context.Context, vp *Viewport, fd int) {
	vp.Set(TerminalWidth(fd, vp.Width()))

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			vp.Set(TerminalWidth(fd, vp.Width()))
		}
	}
}
