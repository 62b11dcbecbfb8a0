package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/metrics"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/profile"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

type itemOutcome struct {
	status  queue.Status
	postURL string
	err     error
}

// runItem drives one claimed item through the generation pipeline and writes
// its terminal state. Any fault, including a panic inside a pipeline step, is
// forced into the error transition; a finished task never leaves its item in
// processing unless the terminal write itself cannot be persisted.
func (e *Engine) runItem(ctx context.Context, ownerID string, item *queue.Item) (outcome itemOutcome) {
	ctx = services.WithItemID(services.WithOwnerID(ctx, ownerID), item.ID)
	logger := logging.WithContext(ctx, e.logger)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("pipeline panic: %v", r)
			logger.Error("pipeline panicked",
				logging.Error(err),
				logging.String(logging.FieldEventType, "pipeline_panic"),
			)
			e.failItem(ctx, logger, ownerID, item, err)
			outcome = itemOutcome{status: queue.StatusError, err: err}
		}
	}()

	logger.Info("item processing started",
		logging.String("keyword", item.MainKeyword),
		logging.String(logging.FieldEventType, "item_start"),
	)

	result, err := e.executePipeline(ctx, logger, ownerID, item)
	if err != nil {
		e.failItem(ctx, logger, ownerID, item, err)
		return itemOutcome{status: queue.StatusError, err: err}
	}

	if err := e.completeItem(ctx, logger, ownerID, item, result); err != nil {
		e.setLastError(err)
		return itemOutcome{status: queue.StatusProcessing, err: err}
	}
	return itemOutcome{status: queue.StatusDone, postURL: result.postURL}
}

type pipelineResult struct {
	postURL      string
	featureImage string
}

// executePipeline runs the four generation steps in order. Workflow start and
// article generation are fatal; featured image and publish are best-effort and
// only run when the owner's profile asks for them.
func (e *Engine) executePipeline(ctx context.Context, logger *slog.Logger, ownerID string, item *queue.Item) (pipelineResult, error) {
	var result pipelineResult

	flags := e.ownerFlags(ctx, logger, ownerID)

	if err := e.timedStep(ctx, metrics.StepWorkflow, func(stepCtx context.Context) error {
		return e.gen.StartWorkflow(stepCtx, item.MainKeyword)
	}); err != nil {
		return result, services.Wrap(services.ErrPipeline, metrics.StepWorkflow, "start workflow", "", err)
	}

	var article Article
	if err := e.timedStep(ctx, metrics.StepArticle, func(stepCtx context.Context) error {
		var genErr error
		article, genErr = e.gen.GenerateArticle(stepCtx, item.MainKeyword)
		return genErr
	}); err != nil {
		return result, services.Wrap(services.ErrPipeline, metrics.StepArticle, "generate article", "", err)
	}

	if flags.AutoFeatureImage {
		if err := e.timedStep(ctx, metrics.StepImage, func(stepCtx context.Context) error {
			url, imgErr := e.gen.GenerateFeaturedImage(stepCtx, item.MainKeyword, article.Title)
			if imgErr != nil {
				return imgErr
			}
			result.featureImage = url
			return nil
		}); err != nil {
			logger.Warn("featured image generation failed; continuing without image",
				logging.Error(err),
				logging.String(logging.FieldStep, metrics.StepImage),
				logging.String(logging.FieldEventType, "step_degraded"),
			)
		}
	}

	if flags.AutoPublish {
		if err := e.timedStep(ctx, metrics.StepPublish, func(stepCtx context.Context) error {
			url, pubErr := e.gen.Publish(stepCtx, article.ID)
			if pubErr != nil {
				return pubErr
			}
			result.postURL = url
			return nil
		}); err != nil {
			logger.Warn("auto publish failed; article remains unpublished",
				logging.Error(err),
				logging.String(logging.FieldStep, metrics.StepPublish),
				logging.String(logging.FieldEventType, "step_degraded"),
			)
		}
	}

	return result, nil
}

// completeItem persists the done transition and charges the credit. The done
// write is retried once on failure; losing it entirely leaves the row in
// processing for the startup reclaim, which is logged loudly.
func (e *Engine) completeItem(ctx context.Context, logger *slog.Logger, ownerID string, item *queue.Item, result pipelineResult) error {
	marked, err := e.store.MarkDone(ctx, ownerID, item.ID, result.postURL, result.featureImage)
	if err != nil {
		logger.Warn("done transition failed; retrying once", logging.Error(err))
		marked, err = e.store.MarkDone(ctx, ownerID, item.ID, result.postURL, result.featureImage)
	}
	if err != nil {
		logger.Error("done transition lost; item remains processing until reclaim",
			logging.Error(err),
			logging.String(logging.FieldEventType, "terminal_write_lost"),
			logging.String(logging.FieldErrorHint, "check queue database access"),
		)
		return services.Wrap(services.ErrPersistence, "complete", "mark done", "", err)
	}
	if !marked {
		// Another writer already finished this row; converge without charging.
		logger.Debug("done transition was a no-op; row already terminal")
		return nil
	}

	item.Status = queue.StatusDone
	item.WPPostURL = result.postURL
	item.FeatureImage = result.featureImage
	e.setLastItem(item)
	metrics.ItemsProcessed.WithLabelValues(metrics.OutcomeDone).Inc()

	charged, err := e.ledger.Charge(ctx, ownerID)
	if err != nil {
		logger.Error("credit charge failed after completion",
			logging.Error(err),
			logging.String(logging.FieldEventType, "charge_failed"),
			logging.String(logging.FieldErrorHint, "reconcile the owner's credit account manually"),
		)
	} else if charged {
		metrics.CreditsCharged.Inc()
	}

	logger.Info("item completed",
		logging.String("post_url", result.postURL),
		logging.Bool("charged", charged),
		logging.String(logging.FieldEventType, "item_complete"),
	)
	return nil
}

// failItem persists the error transition. No credit is charged and no partial
// results are written; a failure writing the transition is logged, not
// retried.
func (e *Engine) failItem(ctx context.Context, logger *slog.Logger, ownerID string, item *queue.Item, itemErr error) {
	logger.Error("item failed",
		logging.Error(itemErr),
		logging.String(logging.FieldEventType, "item_failure"),
	)
	e.setLastError(itemErr)

	marked, err := e.store.MarkError(ctx, ownerID, item.ID)
	if err != nil {
		logger.Error("error transition lost; item remains processing until reclaim",
			logging.Error(err),
			logging.String(logging.FieldEventType, "terminal_write_lost"),
			logging.String(logging.FieldErrorHint, "check queue database access"),
		)
		return
	}
	if marked {
		item.Status = queue.StatusError
		e.setLastItem(item)
		metrics.ItemsProcessed.WithLabelValues(metrics.OutcomeError).Inc()
	}
	e.notifyItemError(ctx, item, itemErr)
}

// ownerFlags resolves the owner's optional-step preferences. A read failure
// degrades to both steps disabled rather than failing the item.
func (e *Engine) ownerFlags(ctx context.Context, logger *slog.Logger, ownerID string) profile.Flags {
	flags, err := e.profiles.Get(ctx, ownerID)
	if err != nil {
		logger.Warn("owner profile unavailable; optional steps disabled", logging.Error(err))
		return profile.Flags{}
	}
	return flags
}

func (e *Engine) timedStep(ctx context.Context, step string, fn func(context.Context) error) error {
	stepCtx := services.WithStep(ctx, step)
	start := time.Now()
	err := fn(stepCtx)
	metrics.PipelineStepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
	return err
}
