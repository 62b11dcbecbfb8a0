package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/api"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/testsupport"
)

func TestProcessItemAccepted(t *testing.T) {
	f := newFixture(t, testsupport.WithCreditDefaults(config.TierStandard, 5))
	item := f.createItem(t, "admitted topic")

	rec := f.do(t, http.MethodPost, "/api/items/"+itemPath(item.ID)+"/process", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var receipt api.ProcessReceipt
	decodeBody(t, rec, &receipt)
	if receipt.Admitted != 1 || len(receipt.ItemIDs) != 1 || receipt.ItemIDs[0] != item.ID {
		t.Fatalf("unexpected receipt: %#v", receipt)
	}

	f.waitForStatus(t, f.cfg.Auth.DefaultOwner, item.ID, queue.StatusDone)

	credits := f.do(t, http.MethodGet, "/api/credits", nil)
	var balance api.Credits
	decodeBody(t, credits, &balance)
	if balance.Used != 1 || balance.Available != 4 {
		t.Fatalf("expected one credit charged, got %#v", balance)
	}
}

func TestProcessItemInsufficientCredit(t *testing.T) {
	f := newFixture(t, testsupport.WithCreditDefaults(config.TierStandard, 0))
	item := f.createItem(t, "refused topic")

	rec := f.do(t, http.MethodPost, "/api/items/"+itemPath(item.ID)+"/process", nil)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Required != 1 || resp.Available != 0 {
		t.Fatalf("refusal must carry counts: %#v", resp)
	}

	row, err := f.store.GetForOwner(context.Background(), f.cfg.Auth.DefaultOwner, item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	if row.Status != queue.StatusPending {
		t.Fatalf("refused item must stay pending, got %s", row.Status)
	}
}

func TestProcessItemNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/items/777/process", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProcessItemConflictWhenAlreadyDone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "already done")
	row, err := f.store.GetForOwner(ctx, f.cfg.Auth.DefaultOwner, item.ID)
	if err != nil {
		t.Fatalf("GetForOwner failed: %v", err)
	}
	testsupport.SeedStatus(t, f.store, row, queue.StatusDone)

	rec := f.do(t, http.MethodPost, "/api/items/"+itemPath(item.ID)+"/process", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestProcessAllAdmitsBacklog(t *testing.T) {
	f := newFixture(t, testsupport.WithCreditDefaults(config.TierStandard, 5))
	for i := 0; i < 3; i++ {
		f.createItem(t, "batch topic")
	}

	rec := f.do(t, http.MethodPost, "/api/items/process-all", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var receipt api.ProcessReceipt
	decodeBody(t, rec, &receipt)
	if receipt.Admitted != 3 || len(receipt.ItemIDs) != 3 {
		t.Fatalf("unexpected receipt: %#v", receipt)
	}
	for _, id := range receipt.ItemIDs {
		f.waitForStatus(t, f.cfg.Auth.DefaultOwner, id, queue.StatusDone)
	}
}

func TestProcessAllEmptyBacklog(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/items/process-all", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("an empty backlog is a no-op 200, got %d", rec.Code)
	}
	var receipt api.ProcessReceipt
	decodeBody(t, rec, &receipt)
	if receipt.Admitted != 0 {
		t.Fatalf("expected zero admissions, got %d", receipt.Admitted)
	}
}

func TestProcessAllRefusesPartialBatch(t *testing.T) {
	f := newFixture(t, testsupport.WithCreditDefaults(config.TierStandard, 2))
	ctx := context.Background()
	ids := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		ids = append(ids, f.createItem(t, "oversized batch").ID)
	}

	rec := f.do(t, http.MethodPost, "/api/items/process-all", nil)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 for short credits, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp api.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Required != 3 || resp.Available != 2 {
		t.Fatalf("refusal must carry batch counts: %#v", resp)
	}

	for _, id := range ids {
		row, err := f.store.GetForOwner(ctx, f.cfg.Auth.DefaultOwner, id)
		if err != nil {
			t.Fatalf("GetForOwner failed: %v", err)
		}
		if row.Status != queue.StatusPending {
			t.Fatalf("all-or-nothing batch must leave item %d pending, got %s", id, row.Status)
		}
	}
}
