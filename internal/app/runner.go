package app

import (
	"context"
	clts "examwatch/clients"
	"examwatch/config"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Runner owns the live monitor and the optional status server for one
// monitoring session.
type Runner struct {
	logger  *zap.Logger
	clients *clts.Clients
	cfg     *config.Config
	monitor *Monitor
	status  *StatusServer
	cancel  context.CancelFunc

	stopOnce sync.Once
}

func NewRunner(clients *clts.Clients, cfg *config.Config, opts ...MonitorOption) *Runner {
	logger := clients.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch {
	case !cfg.Monitor.Notify:
	case clients.Notifier == nil || clients.Notifier.Count() == 0:
		logger.Warn("no chat notifiers configured, alert forwarding disabled")
	default:
		opts = append([]MonitorOption{WithNotifier(clients.Notifier, clients.Alerts.SnapshotURL)}, opts...)
	}

	r := &Runner{
		logger:  logger,
		clients: clients,
		cfg:     cfg,
		monitor: NewMonitor(logger, cfg, clients.Alerts, opts...),
	}
	if cfg.StatusServer.Enabled {
		r.status = NewStatusServer(logger, r.monitor, cfg.StatusServer.Port)
	}
	return r
}

// Monitor returns the session's live monitor.
func (r *Runner) Monitor() *Monitor {
	return r.monitor
}

// Start launches the monitor tasks and the status server.
func (r *Runner) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	r.logger.Info("starting monitoring session",
		zap.String("sessionID", r.monitor.SessionID()),
		zap.String("backend", r.clients.Alerts.BaseURL()),
		zap.Bool("isProd", r.cfg.IsProd),
	)

	if err := r.monitor.Start(ctx); err != nil {
		r.cancel()
		return errors.Wrap(err, "start monitor")
	}
	if r.status != nil {
		r.status.Start()
	}
	return nil
}

// Stop shuts the session down. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(r.stop)
}

func (r *Runner) stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.monitor.Close()

	if r.status != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.status.Shutdown(ctx); err != nil {
			r.logger.Warn("status server shutdown failed", zap.Error(err))
		}
	}

	if err := r.clients.Close(); err != nil {
		r.logger.Warn("closing clients failed", zap.Error(err))
	}
	r.logger.Info("monitoring session stopped", zap.String("sessionID", r.monitor.SessionID()))
}

// Run starts the session and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}
	defer r.Stop()

	<-ctx.Done()
	return nil
}
