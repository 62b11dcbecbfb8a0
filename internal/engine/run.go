package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/metrics"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

// launch detaches a background task for the admitted items. The task inherits
// the request's context values (owner, request id) but not its cancellation:
// once started it runs to completion of its item set.
func (e *Engine) launch(ctx context.Context, ownerID string, items []*queue.Item, batch bool) {
	taskCtx := context.WithoutCancel(ctx)
	taskCtx = services.WithOwnerID(taskCtx, ownerID)
	if _, ok := services.RequestIDFromContext(taskCtx); !ok {
		taskCtx = services.WithRequestID(taskCtx, uuid.NewString())
	}

	e.mu.Lock()
	e.active++
	e.mu.Unlock()
	e.tasks.Add(1)
	metrics.ActiveTasks.Inc()

	go func() {
		defer func() {
			e.mu.Lock()
			e.active--
			e.mu.Unlock()
			e.tasks.Done()
			metrics.ActiveTasks.Dec()
		}()
		if batch {
			e.runBatch(taskCtx, ownerID, items)
			return
		}
		e.runSingle(taskCtx, ownerID, items)
	}()
}

func (e *Engine) runSingle(ctx context.Context, ownerID string, items []*queue.Item) {
	for _, item := range items {
		outcome := e.runItem(ctx, ownerID, item)
		if outcome.err == nil && outcome.status == queue.StatusDone {
			e.notifyItemCompleted(ctx, item.MainKeyword, outcome.postURL)
		}
	}
}

// runBatch processes admitted items strictly sequentially, pacing between
// completions so the generation service never sees an unbounded burst. One
// item's failure never aborts the rest of the batch.
func (e *Engine) runBatch(ctx context.Context, ownerID string, items []*queue.Item) {
	logger := logging.WithContext(ctx, e.logger)
	start := time.Now()
	e.notifyBatchStarted(ctx, len(items))
	logger.Info("batch run started",
		logging.String(logging.FieldOwnerID, ownerID),
		logging.Int("count", len(items)),
		logging.String(logging.FieldEventType, "batch_start"),
	)

	processed := 0
	failed := 0
	for i, item := range items {
		outcome := e.runItem(ctx, ownerID, item)
		if outcome.status == queue.StatusDone {
			processed++
		} else {
			failed++
		}
		if i < len(items)-1 {
			if err := e.sleep(ctx, e.delay); err != nil {
				logger.Warn("batch pacing interrupted", logging.Error(err))
			}
		}
	}

	duration := time.Since(start)
	e.notifyBatchCompleted(ctx, processed, failed, duration)
	logger.Info("batch run finished",
		logging.String(logging.FieldOwnerID, ownerID),
		logging.Int("processed", processed),
		logging.Int("failed", failed),
		logging.Duration("duration", duration),
		logging.String(logging.FieldEventType, "batch_complete"),
	)
}

func (e *Engine) notifyItemCompleted(ctx context.Context, keyword, postURL string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyItemCompleted(ctx, keyword, postURL); err != nil {
		e.logger.Debug("item completion notification failed", logging.Error(err))
	}
}

func (e *Engine) notifyBatchStarted(ctx context.Context, count int) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyBatchStarted(ctx, count); err != nil {
		e.logger.Debug("batch start notification failed", logging.Error(err))
	}
}

func (e *Engine) notifyBatchCompleted(ctx context.Context, processed, failed int, duration time.Duration) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.NotifyBatchCompleted(ctx, processed, failed, duration); err != nil {
		e.logger.Debug("batch completion notification failed", logging.Error(err))
	}
}

func (e *Engine) notifyItemError(ctx context.Context, item *queue.Item, itemErr error) {
	if e.notifier == nil || itemErr == nil {
		return
	}
	label := item.MainKeyword
	if label == "" {
		label = "queue item"
	}
	if err := e.notifier.NotifyError(ctx, itemErr, label); err != nil {
		e.logger.Debug("error notification failed", logging.Error(err))
	}
}
