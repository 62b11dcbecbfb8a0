package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/credits"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/notifications"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/profile"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// Generator is the external content pipeline the engine drives items through.
// The writer service client satisfies it; tests substitute a stub.
type Generator interface {
	StartWorkflow(ctx context.Context, keyword string) error
	GenerateArticle(ctx context.Context, keyword string) (Article, error)
	GenerateFeaturedImage(ctx context.Context, keyword, title string) (string, error)
	Publish(ctx context.Context, articleID string) (string, error)
}

// Article is the handle returned by the generation step and consumed by the
// optional follow-up steps.
type Article struct {
	ID    string
	Title string
}

// Engine owns admission control and the background execution of queue items.
// Foreground callers validate, admit, and durably claim items; every
// generation step then runs on a detached task that writes the terminal state.
type Engine struct {
	cfg      *config.Config
	store    *queue.Store
	ledger   *credits.Ledger
	profiles *profile.Store
	gen      Generator
	notifier notifications.Service
	logger   *slog.Logger

	delay time.Duration
	sleep func(context.Context, time.Duration) error

	mu       sync.Mutex
	tasks    sync.WaitGroup
	active   int
	lastErr  error
	lastItem *queue.Item
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithNotifier overrides the notification service (used in tests).
func WithNotifier(notifier notifications.Service) Option {
	return func(e *Engine) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

// WithSleeper overrides how the inter-item pacing delay is performed.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Engine) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// New constructs the processing engine.
func New(cfg *config.Config, store *queue.Store, ledger *credits.Ledger, profiles *profile.Store, gen Generator, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	eng := &Engine{
		cfg:      cfg,
		store:    store,
		ledger:   ledger,
		profiles: profiles,
		gen:      gen,
		notifier: notifications.NewService(cfg),
		logger:   logger.With(logging.String(logging.FieldComponent, "engine")),
		delay:    cfg.ProcessDelay(),
		sleep:    sleepWithContext,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// ReclaimStale returns processing rows abandoned by a previous daemon run to
// pending. Called once at startup, before the API starts admitting work.
func (e *Engine) ReclaimStale(ctx context.Context) error {
	cutoff := time.Now().Add(-e.cfg.StaleAfter())
	reclaimed, err := e.store.ReclaimStaleProcessing(ctx, cutoff)
	if err != nil {
		return err
	}
	if reclaimed > 0 {
		e.logger.Warn("reclaimed stale processing items",
			logging.Int64("count", reclaimed),
			logging.String(logging.FieldEventType, "stale_reclaim"),
		)
	}
	return nil
}

// Wait blocks until in-flight background tasks finish or the grace period
// elapses. Tasks are never cancelled; a task outliving the grace period keeps
// its item in processing until the next startup reclaim.
func (e *Engine) Wait(grace time.Duration) bool {
	done := make(chan struct{})
	go func() {
		e.tasks.Wait()
		close(done)
	}()
	if grace <= 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(grace):
		return false
	}
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
