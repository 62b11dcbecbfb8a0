package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/metrics"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services"
)

// Receipt acknowledges an accepted processing request. It is returned to the
// caller before any generation step has run.
type Receipt struct {
	Admitted int
	ItemIDs  []int64
}

// InsufficientCreditError reports an admission refusal with the counts the
// owner needs to act on it.
type InsufficientCreditError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditError) Error() string {
	return fmt.Sprintf("insufficient credit: %d required, %d available", e.Required, e.Available)
}

// Is classifies the refusal under the shared sentinel so transport layers can
// map it without knowing the concrete type.
func (e *InsufficientCreditError) Is(target error) bool {
	return target == services.ErrInsufficientCredit
}

// ProcessItem admits and launches a single item. The item must exist, belong
// to the owner, carry a keyword, and not already be processing or done. The
// claim to processing is durable before this returns; the pipeline then runs
// on a detached task.
func (e *Engine) ProcessItem(ctx context.Context, ownerID string, id int64) (Receipt, error) {
	item, err := e.store.GetForOwner(ctx, ownerID, id)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrPersistence, "admission", "get item", "", err)
	}
	if item == nil {
		return Receipt{}, services.Wrap(services.ErrNotFound, "admission", "get item", fmt.Sprintf("item %d", id), nil)
	}
	if !item.HasKeyword() {
		return Receipt{}, services.Wrap(services.ErrValidation, "admission", "check keyword", "main keyword is empty", nil)
	}
	switch item.Status {
	case queue.StatusProcessing:
		return Receipt{}, services.Wrap(services.ErrConflict, "admission", "check status", "item is already processing", nil)
	case queue.StatusDone:
		return Receipt{}, services.Wrap(services.ErrConflict, "admission", "check status", "item is already done", nil)
	}

	balance, err := e.ledger.Balance(ctx, ownerID)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrPersistence, "admission", "read balance", "", err)
	}
	if !balance.CanAfford(1) {
		return Receipt{}, &InsufficientCreditError{Required: 1, Available: balance.Available}
	}

	// Error items may be re-run after a fresh admission; pending is the
	// normal path. The claim is status-guarded, so a concurrent admission
	// of the same item loses here.
	claimed, err := e.store.ClaimProcessing(ctx, ownerID, item.ID, queue.StatusPending, queue.StatusError)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrPersistence, "admission", "claim item", "", err)
	}
	if !claimed {
		return Receipt{}, services.Wrap(services.ErrConflict, "admission", "claim item", "item was claimed by another run", nil)
	}

	item.Status = queue.StatusProcessing
	e.launch(ctx, ownerID, []*queue.Item{item}, false)
	return Receipt{Admitted: 1, ItemIDs: []int64{item.ID}}, nil
}

// ProcessAll admits the owner's pending backlog as one batch. Admission is
// all-or-nothing: either credit covers every matched item or zero items change
// state. Partial admission is deliberately not offered; starting a batch that
// cannot finish leaves the owner with an inconsistent half-processed queue.
func (e *Engine) ProcessAll(ctx context.Context, ownerID string) (Receipt, error) {
	matched, err := e.store.PendingForProcessing(ctx, ownerID)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrPersistence, "admission", "select pending", "", err)
	}
	if len(matched) == 0 {
		return Receipt{}, nil
	}

	balance, err := e.ledger.Balance(ctx, ownerID)
	if err != nil {
		return Receipt{}, services.Wrap(services.ErrPersistence, "admission", "read balance", "", err)
	}
	if !balance.CanAfford(len(matched)) {
		metrics.Batches.WithLabelValues(metrics.OutcomeRefused).Inc()
		return Receipt{}, &InsufficientCreditError{Required: len(matched), Available: balance.Available}
	}

	admitted := make([]*queue.Item, 0, len(matched))
	ids := make([]int64, 0, len(matched))
	for _, item := range matched {
		claimed, err := e.store.ClaimProcessing(ctx, ownerID, item.ID)
		if err != nil {
			return Receipt{Admitted: len(admitted), ItemIDs: ids},
				services.Wrap(services.ErrPersistence, "admission", "claim batch item", "", err)
		}
		if !claimed {
			// A concurrent run flipped this row between select and claim;
			// it is that run's responsibility now.
			continue
		}
		item.Status = queue.StatusProcessing
		admitted = append(admitted, item)
		ids = append(ids, item.ID)
	}
	if len(admitted) == 0 {
		return Receipt{}, nil
	}

	metrics.Batches.WithLabelValues(metrics.OutcomeAdmitted).Inc()
	e.launch(ctx, ownerID, admitted, true)
	return Receipt{Admitted: len(admitted), ItemIDs: ids}, nil
}

// IsInsufficientCredit reports whether err is an admission refusal.
func IsInsufficientCredit(err error) bool {
	return errors.Is(err, services.ErrInsufficientCredit)
}
