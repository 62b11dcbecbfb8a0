// Package daemon ties the queue store, processing engine, and HTTP API
// together behind a single-instance file lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/engine"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/server"
)

type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	engine *engine.Engine
	server *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon around already-built dependencies.
func New(cfg *config.Config, store *queue.Store, eng *engine.Engine, srv *server.Server, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || eng == nil || srv == nil {
		return nil, errors.New("daemon requires config, store, engine, and server")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		engine:   eng,
		server:   srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, returns orphaned work to pending, and
// brings the API listener up.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clawd instance is already running")
	}

	if err := d.engine.ReclaimStale(ctx); err != nil {
		d.logger.Warn("reclaim stale items",
			logging.Error(err),
			logging.String(logging.FieldEventType, "reclaim_failed"),
			logging.String(logging.FieldErrorHint, "check queue database access"),
		)
	}

	if err := d.server.Start(); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("clawd started",
		logging.String("bind", d.server.Addr()),
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldEventType, "daemon_started"),
	)
	return nil
}

// Stop shuts the API down, then waits out in-flight tasks within the
// configured grace period before releasing the lock.
func (d *Daemon) Stop(ctx context.Context) {
	if !d.running.Load() {
		return
	}

	grace := d.cfg.ShutdownGrace()
	shutdownCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		d.logger.Warn("api shutdown", logging.Error(err))
	}

	if !d.engine.Wait(grace) {
		d.logger.Warn("background tasks still running at shutdown",
			logging.Int("active", d.engine.ActiveTasks()),
			logging.String(logging.FieldEventType, "shutdown_tasks_abandoned"),
			logging.String(logging.FieldErrorHint, "items left in processing are reclaimed on next start"),
		)
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("clawd stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Close stops the daemon and releases the queue store.
func (d *Daemon) Close() error {
	d.Stop(context.Background())
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether Start has completed without a matching Stop.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Addr returns the API listener address once the daemon is running.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}
