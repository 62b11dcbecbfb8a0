// Package profile stores per-owner pipeline preferences. The flags decide
// whether the optional pipeline steps (featured image, auto publish) run at
// all; an owner without a saved profile gets both disabled.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// Flags are the owner's opt-in switches for the best-effort pipeline steps.
type Flags struct {
	AutoFeatureImage bool
	AutoPublish      bool
}

// Store reads and writes owner profiles in the shared queue database.
type Store struct {
	db *sql.DB
}

// NewStore builds a profile store over the shared queue database.
func NewStore(store *queue.Store) *Store {
	return &Store{db: store.DB()}
}

// Get returns the owner's flags. A missing row means both flags are off.
func (s *Store) Get(ctx context.Context, ownerID string) (Flags, error) {
	var (
		autoImage   int
		autoPublish int
	)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT auto_feature_image, auto_publish FROM owner_profiles WHERE owner_id = ?`,
		ownerID,
	)
	if err := row.Scan(&autoImage, &autoPublish); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Flags{}, nil
		}
		return Flags{}, fmt.Errorf("read owner profile: %w", err)
	}
	return Flags{
		AutoFeatureImage: autoImage != 0,
		AutoPublish:      autoPublish != 0,
	}, nil
}

// Put saves the owner's flags, creating the profile row if needed.
func (s *Store) Put(ctx context.Context, ownerID string, flags Flags) error {
	if ownerID == "" {
		return errors.New("owner id is required")
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO owner_profiles (owner_id, auto_feature_image, auto_publish, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(owner_id) DO UPDATE SET
             auto_feature_image = excluded.auto_feature_image,
             auto_publish = excluded.auto_publish,
             updated_at = excluded.updated_at`,
		ownerID,
		boolToInt(flags.AutoFeatureImage),
		boolToInt(flags.AutoPublish),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("save owner profile: %w", err)
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
