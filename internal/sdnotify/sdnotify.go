// Package sdnotify reports service readiness and liveness to systemd, for
// deployments that run the scheduler under a systemd unit.
package sdnotify

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/cout970/cronrs/internal/supervisor"
	"github.com/cout970/cronrs/pkg/logx"
)

// Ready notifies systemd that the scheduler loop is up and ticking. It is a
// no-op (and returns no error) outside of systemd-managed environments.
func Ready() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
}

// Stopping notifies systemd that a graceful shutdown has begun.
func Stopping() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}

// StartWatchdog pings systemd's watchdog at half the interval systemd
// configured via WATCHDOG_USEC, if any. It is a no-op when the unit does
// not have a watchdog configured.
func StartWatchdog(sup *supervisor.Supervisor, log logx.Logger) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	ping := interval / 2

	sup.GoRestart("sdnotify.watchdog", func(ctx context.Context) error {
		ticker := time.NewTicker(ping)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
					log.Warn("sd_notify watchdog ping failed", logx.Err(err))
				}
			}
		}
	}, supervisor.WithPublishFirstError(false))
}
