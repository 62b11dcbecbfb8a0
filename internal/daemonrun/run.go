// Package daemonrun wires configuration, storage, the engine, and the API
// server into a running clawd process.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/credits"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/daemon"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/engine"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/notifications"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/profile"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/server"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services/writer"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the clawd runtime loop and blocks until the context is
// canceled or a termination signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "clawd.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logDependencySnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.LogDir, "clawd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	logDatabaseHealth(signalCtx, logger, store)

	ledger := credits.NewLedger(store, cfg)
	profiles := profile.NewStore(store)
	notifier := notifications.NewService(cfg)

	writerClient := writer.NewClient(writer.Config{
		APIKey:           cfg.Writer.APIKey,
		BaseURL:          cfg.Writer.BaseURL,
		TimeoutSeconds:   cfg.Writer.TimeoutSeconds,
		RetryMaxAttempts: cfg.Writer.RetryMaxAttempts,
	})

	eng := engine.New(cfg, store, ledger, profiles, writerGenerator{client: writerClient}, logger,
		engine.WithNotifier(notifier))
	srv := server.New(cfg, store, ledger, profiles, eng, writerClient, logger)

	d, err := daemon.New(cfg, store, eng, srv, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	<-signalCtx.Done()
	logger.Info("clawd shutting down")
	return nil
}

// writerGenerator adapts the writer service client to the engine's
// generator contract.
type writerGenerator struct {
	client *writer.Client
}

func (g writerGenerator) StartWorkflow(ctx context.Context, keyword string) error {
	return g.client.StartWorkflow(ctx, keyword)
}

func (g writerGenerator) GenerateArticle(ctx context.Context, keyword string) (engine.Article, error) {
	article, err := g.client.GenerateArticle(ctx, keyword)
	if err != nil {
		return engine.Article{}, err
	}
	return engine.Article{ID: article.ID, Title: article.Title}, nil
}

func (g writerGenerator) GenerateFeaturedImage(ctx context.Context, keyword, title string) (string, error) {
	return g.client.GenerateFeaturedImage(ctx, keyword, title)
}

func (g writerGenerator) Publish(ctx context.Context, articleID string) (string, error) {
	return g.client.Publish(ctx, articleID)
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDatabaseHealth(ctx context.Context, logger *slog.Logger, store *queue.Store) {
	health, err := store.CheckHealth(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "queue database check failed", "db_health_degraded",
			logging.String("db_path", health.DBPath),
			logging.Error(err),
		)
		return
	}
	if len(health.MissingColumns) > 0 || !health.IntegrityCheck {
		logging.WarnWithContext(logger, "queue database degraded", "db_health_degraded",
			logging.String("db_path", health.DBPath),
			logging.Bool("integrity_ok", health.IntegrityCheck),
			logging.String("missing_columns", strings.Join(health.MissingColumns, ",")),
		)
		return
	}
	logger.Info("queue database ready",
		logging.String("db_path", health.DBPath),
		logging.Int("total_items", health.TotalItems),
	)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("writer_base_url", cfg.Writer.BaseURL),
		logging.Bool("writer_key_present", strings.TrimSpace(cfg.Writer.APIKey) != ""),
		logging.Bool("auth_enabled", strings.TrimSpace(cfg.Auth.JWTSecret) != ""),
		logging.Bool("ntfy_configured", strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""),
	)
}
