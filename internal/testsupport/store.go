package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem enqueues a pending item for tests using the provided store.
func NewItem(t testing.TB, store *queue.Store, ownerID, keyword string) *queue.Item {
	t.Helper()

	item, err := store.NewItem(context.Background(), ownerID, keyword, "", "")
	if err != nil {
		t.Fatalf("store.NewItem: %v", err)
	}
	return item
}

// SeedStatus forces an item into the given status, bypassing the claim
// statements. Tests use it to stage terminal or in-flight rows directly.
func SeedStatus(t testing.TB, store *queue.Store, item *queue.Item, status queue.Status) {
	t.Helper()

	item.Status = status
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("store.Update: %v", err)
	}
}

// BackdateItem rewrites an item's updated_at so reclaim-sweep tests can stage
// rows that look abandoned by an earlier daemon run.
func BackdateItem(t testing.TB, store *queue.Store, id int64, updatedAt time.Time) {
	t.Helper()

	if _, err := store.DB().ExecContext(
		context.Background(),
		`UPDATE queue_items SET updated_at = ? WHERE id = ?`,
		updatedAt.UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		t.Fatalf("backdate item %d: %v", id, err)
	}
}
