package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// List page bounds. Callers may request fewer items but never more than the cap.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// NewItem inserts a pending item for the owner. The main keyword is required.
func (s *Store) NewItem(ctx context.Context, ownerID, mainKeyword, serviceURL, clusterKeywords string) (*Item, error) {
	item := &Item{
		OwnerID:         ownerID,
		MainKeyword:     strings.TrimSpace(mainKeyword),
		ServiceURL:      strings.TrimSpace(serviceURL),
		ClusterKeywords: strings.TrimSpace(clusterKeywords),
		Status:          StatusPending,
	}
	if err := s.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Insert persists a new item, honoring the status already set on it. Bulk
// import uses this directly because spreadsheet rows may carry a status.
func (s *Store) Insert(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if strings.TrimSpace(item.OwnerID) == "" {
		return errors.New("owner id is required")
	}
	if strings.TrimSpace(item.MainKeyword) == "" {
		return errors.New("main keyword is required")
	}
	if item.Status == "" {
		item.Status = StatusPending
	}
	if _, ok := statusSet[item.Status]; !ok {
		return fmt.Errorf("unknown status %q", item.Status)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            owner_id, main_keyword, service_url, cluster_keywords,
            status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.OwnerID,
		item.MainKeyword,
		nullableString(item.ServiceURL),
		nullableString(item.ClusterKeywords),
		item.Status,
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// GetByID fetches a queue item by identifier regardless of owner.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetForOwner fetches a queue item scoped to its owner. An id that exists but
// belongs to another owner is indistinguishable from a missing one.
func (s *Store) GetForOwner(ctx context.Context, ownerID string, id int64) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item for owner: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items
         SET main_keyword = ?, service_url = ?, cluster_keywords = ?, status = ?,
             wp_post_url = ?, feature_image = ?, updated_at = ?
         WHERE id = ? AND owner_id = ?`,
		item.MainKeyword,
		nullableString(item.ServiceURL),
		nullableString(item.ClusterKeywords),
		item.Status,
		nullableString(item.WPPostURL),
		nullableString(item.FeatureImage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
		item.OwnerID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateRequestFields edits the caller-supplied fields of an item that has not
// started processing. Returns false when the row is missing, owned by someone
// else, or no longer editable; the guard and the write are one statement.
func (s *Store) UpdateRequestFields(ctx context.Context, ownerID string, id int64, mainKeyword, serviceURL, clusterKeywords string) (bool, error) {
	mainKeyword = strings.TrimSpace(mainKeyword)
	if mainKeyword == "" {
		return false, errors.New("main keyword is required")
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items
         SET main_keyword = ?, service_url = ?, cluster_keywords = ?, updated_at = ?
         WHERE id = ? AND owner_id = ? AND status IN (?, ?)`,
		mainKeyword,
		nullableString(strings.TrimSpace(serviceURL)),
		nullableString(strings.TrimSpace(clusterKeywords)),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		ownerID,
		StatusPending,
		StatusError,
	)
	if err != nil {
		return false, fmt.Errorf("update request fields: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// List returns one page of the owner's items, newest first, plus the total
// row count for the same filter.
func (s *Store) List(ctx context.Context, ownerID string, limit, offset int, statuses ...Status) ([]*Item, int, error) {
	limit = NormalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	where := ` WHERE owner_id = ?`
	args := []any{ownerID}
	if len(statuses) > 0 {
		where += ` AND status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM queue_items`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count queue items: %w", err)
	}

	query := `SELECT ` + itemColumns + ` FROM queue_items` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// AllForOwner returns every item the owner has, oldest first. Used by export.
func (s *Store) AllForOwner(ctx context.Context, ownerID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list owner items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PendingForProcessing returns the owner's processable backlog: pending items
// with a non-empty keyword, earliest first.
func (s *Store) PendingForProcessing(ctx context.Context, ownerID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items
         WHERE owner_id = ? AND status = ? AND TRIM(main_keyword) != ''
         ORDER BY created_at, id`,
		ownerID,
		StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Counts returns the owner's item count per status.
func (s *Store) Counts(ctx context.Context, ownerID string) (map[Status]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, COUNT(1) FROM queue_items WHERE owner_id = ? GROUP BY status`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int, len(allStatuses))
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// Remove deletes an item scoped to its owner. Deletion is irreversible.
func (s *Store) Remove(ctx context.Context, ownerID string, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM queue_items WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// NormalizeLimit clamps a requested page size into the allowed range.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
