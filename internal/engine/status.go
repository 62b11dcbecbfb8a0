package engine

import (
	"context"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// StatusSummary represents lightweight engine diagnostics.
type StatusSummary struct {
	ActiveTasks int
	LastError   string
	LastItem    *queue.Item
	QueueStats  map[queue.Status]int
}

// Status returns the latest engine information.
func (e *Engine) Status(ctx context.Context) StatusSummary {
	e.mu.Lock()
	active := e.active
	lastErr := e.lastErr
	lastItem := e.lastItem
	e.mu.Unlock()

	stats, err := e.store.Stats(ctx)
	if err != nil {
		e.logger.Warn("failed to read queue stats", logging.Error(err))
	}

	summary := StatusSummary{ActiveTasks: active, QueueStats: stats}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastItem != nil {
		cp := *lastItem
		summary.LastItem = &cp
	}
	return summary
}

// ActiveTasks returns the number of background tasks currently running.
func (e *Engine) ActiveTasks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) setLastError(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
}

func (e *Engine) setLastItem(item *queue.Item) {
	e.mu.Lock()
	if item != nil {
		cp := *item
		e.lastItem = &cp
	} else {
		e.lastItem = nil
	}
	e.mu.Unlock()
}
