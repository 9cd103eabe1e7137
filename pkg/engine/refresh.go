package engine

import (
	"context"
	"os/exec"
	"time"

	"github.com/arthur-debert/lbi/pkg/logging"
)

// Refresher updates the desktop environment's view of a menu directory.
type Refresher interface {
	Refresh(ctx context.Context, dir string) error
}

// NopRefresher does nothing
type NopRefresher struct{}

// Refresh implements Refresher
func (NopRefresher) Refresh(context.Context, string) error { return nil }

// CommandRefresher runs a tool such as update-desktop-database on the
// menu directory. A tool missing from PATH is skipped silently.
type CommandRefresher struct {
	Command string
	Timeout time.Duration
}

// Refresh implements Refresher
func (r CommandRefresher) Refresh(ctx context.Context, dir string) error {
	logger := logging.GetLogger("engine.refresh")
	bin, err := exec.LookPath(r.Command)
	if err != nil {
		logger.Debug().Str("command", r.Command).Msg("Refresh tool not found, skipping")
		return nil
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, dir).CombinedOutput()
	if err != nil {
		logger.Debug().Str("output", string(out)).Msg("Refresh tool output")
	}
	return err
}

// refresh runs the refresher after a committed change. Failures are
// logged and never surfaced: the change itself already succeeded.
func (e *Engine) refresh(ctx context.Context, op *operation) {
	if !e.menuExport {
		return
	}
	if err := e.refresher.Refresh(context.WithoutCancel(ctx), e.host.MenuDir); err != nil {
		op.logger.Warn().Err(err).Str("dir", e.host.MenuDir).Msg("Menu database refresh failed")
	}
}
