package queue

import (
	"context"
	"fmt"
	"time"
)

// ClaimProcessing flips one item to processing. The write is a single
// status-guarded statement: it succeeds only while the item still holds one
// of the from statuses (pending when none are given), so concurrent admissions
// cannot claim the same row twice.
func (s *Store) ClaimProcessing(ctx context.Context, ownerID string, id int64, from ...Status) (bool, error) {
	if len(from) == 0 {
		from = []Status{StatusPending}
	}
	args := []any{StatusProcessing, time.Now().UTC().Format(time.RFC3339Nano), id, ownerID}
	for _, status := range from {
		args = append(args, status)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET status = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status IN (`+makePlaceholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("claim processing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkDone moves a processing item to done and persists whichever result
// fields the pipeline produced. Guarded on the processing status so a repeat
// write after the first terminal transition is a no-op.
func (s *Store) MarkDone(ctx context.Context, ownerID string, id int64, wpPostURL, featureImage string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET status = ?, wp_post_url = ?, feature_image = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		StatusDone,
		nullableString(wpPostURL),
		nullableString(featureImage),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("mark done: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkError moves a processing item to error. No result fields are written;
// the failure detail lives in the logs, not the row.
func (s *Store) MarkError(ctx context.Context, ownerID string, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET status = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status = ?`,
		StatusError,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusProcessing,
	)
	if err != nil {
		return false, fmt.Errorf("mark error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ReclaimStaleProcessing returns items stuck in processing to pending when
// their last write predates the cutoff. Run once at daemon startup so rows
// orphaned by a crash become processable again.
func (s *Store) ReclaimStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET status = ?, updated_at = ?
         WHERE status = ? AND updated_at < ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusProcessing,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale items: %w", err)
	}
	return res.RowsAffected()
}
