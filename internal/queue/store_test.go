package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewItem(ctx, "owner-1", "best espresso machines", "https://example.com", "espresso, machines")
	if err != nil {
		t.Fatalf("NewItem failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected new item pending, got %s", item.Status)
	}

	fetched, err := store.GetForOwner(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if fetched == nil || fetched.MainKeyword != "best espresso machines" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if fetched.ServiceURL != "https://example.com" {
		t.Fatalf("expected service url persisted, got %q", fetched.ServiceURL)
	}
}

func TestNewItemRequiresKeyword(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.NewItem(ctx, "owner-1", "   ", "", ""); err == nil {
		t.Fatal("expected error when keyword missing")
	}
	if _, err := store.NewItem(ctx, "", "keyword", "", ""); err == nil {
		t.Fatal("expected error when owner missing")
	}
}

func TestGetForOwnerHidesForeignItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "topic")

	foreign, err := store.GetForOwner(ctx, "owner-2", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if foreign != nil {
		t.Fatalf("expected foreign owner to see nothing, got %#v", foreign)
	}
}

func TestInsertHonorsStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	imported := &queue.Item{OwnerID: "owner-1", MainKeyword: "archived topic", Status: queue.StatusDone}
	if err := store.Insert(ctx, imported); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	fetched, err := store.GetForOwner(ctx, "owner-1", imported.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if fetched.Status != queue.StatusDone {
		t.Fatalf("expected imported status preserved, got %s", fetched.Status)
	}

	bogus := &queue.Item{OwnerID: "owner-1", MainKeyword: "topic", Status: "archived"}
	if err := store.Insert(ctx, bogus); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestUpdateRequestFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "original keyword")

	updated, err := store.UpdateRequestFields(ctx, "owner-1", item.ID, "revised keyword", "https://example.com/page", "a, b")
	if err != nil {
		t.Fatalf("UpdateRequestFields failed: %v", err)
	}
	if !updated {
		t.Fatal("expected pending item to be editable")
	}

	fetched, err := store.GetForOwner(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if fetched.MainKeyword != "revised keyword" || fetched.ClusterKeywords != "a, b" {
		t.Fatalf("unexpected fields after edit: %#v", fetched)
	}

	if _, err := store.UpdateRequestFields(ctx, "owner-1", item.ID, "   ", "", ""); err == nil {
		t.Fatal("expected empty keyword to be rejected")
	}

	updated, err = store.UpdateRequestFields(ctx, "owner-2", item.ID, "hijack", "", "")
	if err != nil {
		t.Fatalf("UpdateRequestFields failed: %v", err)
	}
	if updated {
		t.Fatal("expected foreign owner edit to be refused")
	}

	testsupport.SeedStatus(t, store, fetched, queue.StatusProcessing)
	updated, err = store.UpdateRequestFields(ctx, "owner-1", item.ID, "late edit", "", "")
	if err != nil {
		t.Fatalf("UpdateRequestFields failed: %v", err)
	}
	if updated {
		t.Fatal("expected processing item to be locked")
	}

	testsupport.SeedStatus(t, store, fetched, queue.StatusError)
	updated, err = store.UpdateRequestFields(ctx, "owner-1", item.ID, "retry keyword", "", "")
	if err != nil {
		t.Fatalf("UpdateRequestFields failed: %v", err)
	}
	if !updated {
		t.Fatal("expected errored item to be editable")
	}
}

func TestListNewestFirstWithTotal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		item := testsupport.NewItem(t, store, "owner-1", fmt.Sprintf("topic-%d", i))
		ids = append(ids, item.ID)
	}
	testsupport.NewItem(t, store, "owner-2", "foreign topic")

	items, total, err := store.List(ctx, "owner-1", 2, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(items))
	}
	if items[0].ID != ids[2] || items[1].ID != ids[1] {
		t.Fatalf("expected newest first, got IDs %d,%d", items[0].ID, items[1].ID)
	}

	rest, total, err := store.List(ctx, "owner-1", 2, 2)
	if err != nil {
		t.Fatalf("List with offset failed: %v", err)
	}
	if total != 3 || len(rest) != 1 || rest[0].ID != ids[0] {
		t.Fatalf("unexpected second page: total=%d len=%d", total, len(rest))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	a := testsupport.NewItem(t, store, "owner-1", "topic-a")
	b := testsupport.NewItem(t, store, "owner-1", "topic-b")
	testsupport.SeedStatus(t, store, b, queue.StatusDone)

	done, total, err := store.List(ctx, "owner-1", 0, 0, queue.StatusDone)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(done) != 1 || done[0].ID != b.ID {
		t.Fatalf("unexpected filtered result: total=%d len=%d", total, len(done))
	}

	pending, total, err := store.List(ctx, "owner-1", 0, 0, queue.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(pending) != 1 || pending[0].ID != a.ID {
		t.Fatalf("unexpected pending result: total=%d len=%d", total, len(pending))
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, queue.DefaultListLimit},
		{-5, queue.DefaultListLimit},
		{7, 7},
		{100, 100},
		{500, queue.MaxListLimit},
	}
	for _, tc := range cases {
		if got := queue.NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPendingForProcessingSkipsBlankKeywords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewItem(t, store, "owner-1", "first topic")
	second := testsupport.NewItem(t, store, "owner-1", "second topic")

	blank := testsupport.NewItem(t, store, "owner-1", "placeholder")
	blank.MainKeyword = "   "
	if err := store.Update(ctx, blank); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	claimed := testsupport.NewItem(t, store, "owner-1", "already running")
	testsupport.SeedStatus(t, store, claimed, queue.StatusProcessing)

	items, err := store.PendingForProcessing(ctx, "owner-1")
	if err != nil {
		t.Fatalf("PendingForProcessing failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 processable items, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("expected oldest first order, got IDs %d,%d", items[0].ID, items[1].ID)
	}
}

func TestClaimProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "topic")

	claimed, err := store.ClaimProcessing(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}
	if !claimed {
		t.Fatal("expected pending item to be claimed")
	}

	again, err := store.ClaimProcessing(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}
	if again {
		t.Fatal("expected second claim to be refused")
	}

	errored := testsupport.NewItem(t, store, "owner-1", "retry topic")
	testsupport.SeedStatus(t, store, errored, queue.StatusError)

	claimed, err = store.ClaimProcessing(ctx, "owner-1", errored.ID)
	if err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}
	if claimed {
		t.Fatal("expected default claim to skip errored item")
	}

	claimed, err = store.ClaimProcessing(ctx, "owner-1", errored.ID, queue.StatusPending, queue.StatusError)
	if err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}
	if !claimed {
		t.Fatal("expected errored item claimable when error is allowed")
	}

	finished := testsupport.NewItem(t, store, "owner-1", "done topic")
	testsupport.SeedStatus(t, store, finished, queue.StatusDone)
	claimed, err = store.ClaimProcessing(ctx, "owner-1", finished.ID, queue.StatusPending, queue.StatusError)
	if err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}
	if claimed {
		t.Fatal("expected done item to stay terminal")
	}
}

func TestMarkDonePersistsResults(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "topic")
	if _, err := store.ClaimProcessing(ctx, "owner-1", item.ID); err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}

	marked, err := store.MarkDone(ctx, "owner-1", item.ID, "https://blog.example/post", "https://cdn.example/img.png")
	if err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	if !marked {
		t.Fatal("expected processing item to be marked done")
	}

	fetched, err := store.GetForOwner(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if fetched.Status != queue.StatusDone {
		t.Fatalf("expected done, got %s", fetched.Status)
	}
	if fetched.WPPostURL != "https://blog.example/post" || fetched.FeatureImage != "https://cdn.example/img.png" {
		t.Fatalf("expected result fields persisted: %#v", fetched)
	}

	marked, err = store.MarkDone(ctx, "owner-1", item.ID, "other", "other")
	if err != nil {
		t.Fatalf("MarkDone failed: %v", err)
	}
	if marked {
		t.Fatal("expected repeat terminal write to be a no-op")
	}
}

func TestMarkErrorLeavesResultsEmpty(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "topic")
	if _, err := store.ClaimProcessing(ctx, "owner-1", item.ID); err != nil {
		t.Fatalf("ClaimProcessing failed: %v", err)
	}

	marked, err := store.MarkError(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("MarkError failed: %v", err)
	}
	if !marked {
		t.Fatal("expected processing item to be marked errored")
	}

	fetched, err := store.GetForOwner(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if fetched.Status != queue.StatusError {
		t.Fatalf("expected error status, got %s", fetched.Status)
	}
	if fetched.WPPostURL != "" || fetched.FeatureImage != "" {
		t.Fatalf("expected no result fields, got %#v", fetched)
	}

	marked, err = store.MarkError(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("MarkError failed: %v", err)
	}
	if marked {
		t.Fatal("expected repeat terminal write to be a no-op")
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stale := testsupport.NewItem(t, store, "owner-1", "stale topic")
	testsupport.SeedStatus(t, store, stale, queue.StatusProcessing)
	fresh := testsupport.NewItem(t, store, "owner-1", "fresh topic")
	testsupport.SeedStatus(t, store, fresh, queue.StatusProcessing)

	past := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339Nano)
	if _, err := store.DB().ExecContext(ctx, `UPDATE queue_items SET updated_at = ? WHERE id = ?`, past, stale.ID); err != nil {
		t.Fatalf("backdate updated_at: %v", err)
	}

	count, err := store.ReclaimStaleProcessing(ctx, time.Now().Add(-1*time.Hour))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 item reclaimed, got %d", count)
	}

	reclaimed, err := store.GetForOwner(ctx, "owner-1", stale.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if reclaimed.Status != queue.StatusPending {
		t.Fatalf("expected stale item back to pending, got %s", reclaimed.Status)
	}

	untouched, err := store.GetForOwner(ctx, "owner-1", fresh.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if untouched.Status != queue.StatusProcessing {
		t.Fatalf("expected fresh item untouched, got %s", untouched.Status)
	}
}

func TestCountsPerOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewItem(t, store, "owner-1", "a")
	done := testsupport.NewItem(t, store, "owner-1", "b")
	testsupport.SeedStatus(t, store, done, queue.StatusDone)
	testsupport.NewItem(t, store, "owner-2", "c")

	counts, err := store.Counts(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts[queue.StatusPending] != 1 || counts[queue.StatusDone] != 1 {
		t.Fatalf("unexpected counts: %#v", counts)
	}
	if counts[queue.StatusProcessing] != 0 {
		t.Fatalf("expected no processing items, got %d", counts[queue.StatusProcessing])
	}
}

func TestRemoveScopedByOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewItem(t, store, "owner-1", "topic")

	removed, err := store.Remove(ctx, "owner-2", item.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Fatal("expected foreign owner delete to be refused")
	}

	removed, err = store.Remove(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Fatal("expected owner delete to succeed")
	}

	gone, err := store.GetForOwner(ctx, "owner-1", item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected item deleted, got %#v", gone)
	}
}

func TestHealthAggregatesCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewItem(t, store, "owner-1", "a")
	running := testsupport.NewItem(t, store, "owner-1", "b")
	testsupport.SeedStatus(t, store, running, queue.StatusProcessing)
	failed := testsupport.NewItem(t, store, "owner-2", "c")
	testsupport.SeedStatus(t, store, failed, queue.StatusError)

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Pending != 1 || health.Processing != 1 || health.Errored != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestCheckHealthReportsFreshDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewItem(t, store, "owner-1", "a")

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health flags: %#v", health)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
	if len(health.MissingColumns) != 0 {
		t.Fatalf("expected no missing columns, got %v", health.MissingColumns)
	}
	if health.TotalItems != 1 {
		t.Fatalf("expected 1 item counted, got %d", health.TotalItems)
	}
}
