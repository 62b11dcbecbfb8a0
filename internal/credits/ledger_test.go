package credits_test

import (
	"context"
	"testing"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/credits"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/testsupport"
)

func TestBalanceProvisionsAccount(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierStandard, 5))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Tier != config.TierStandard || balance.Included != 5 || balance.Used != 0 {
		t.Fatalf("unexpected fresh balance: %#v", balance)
	}
	if balance.Available != 5 || balance.Unlimited {
		t.Fatalf("expected 5 available, got %#v", balance)
	}
}

func TestChargeConsumesOneCredit(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierStandard, 2))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	charged, err := ledger.Charge(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if !charged {
		t.Fatal("expected standard account to be charged")
	}

	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Used != 1 || balance.Available != 1 {
		t.Fatalf("unexpected balance after charge: %#v", balance)
	}
}

func TestAvailableFloorsAtZero(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierStandard, 1))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := ledger.Charge(ctx, "owner-1"); err != nil {
			t.Fatalf("Charge failed: %v", err)
		}
	}

	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Used != 3 {
		t.Fatalf("expected used 3, got %d", balance.Used)
	}
	if balance.Available != 0 {
		t.Fatalf("expected available floored at 0, got %d", balance.Available)
	}
	if balance.CanAfford(1) {
		t.Fatal("expected exhausted balance to refuse admission")
	}
}

func TestExemptTierNeverCharged(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierExempt, 0))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.Unlimited {
		t.Fatalf("expected unlimited balance, got %#v", balance)
	}
	if !balance.CanAfford(1000) {
		t.Fatal("expected exempt balance to afford any batch")
	}

	charged, err := ledger.Charge(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if charged {
		t.Fatal("expected exempt account to skip charging")
	}

	balance, err = ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Used != 0 {
		t.Fatalf("expected exempt usage untouched, got %d", balance.Used)
	}
}

func TestEnsureAccountKeepsExisting(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierStandard, 10))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	if _, err := ledger.Charge(ctx, "owner-1"); err != nil {
		t.Fatalf("Charge failed: %v", err)
	}
	if err := ledger.EnsureAccount(ctx, "owner-1"); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}

	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Used != 1 {
		t.Fatalf("expected existing usage preserved, got %d", balance.Used)
	}
}

func TestSetTier(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCreditDefaults(config.TierStandard, 1))
	store := testsupport.MustOpenStore(t, cfg)
	ledger := credits.NewLedger(store, cfg)

	ctx := context.Background()
	if err := ledger.SetTier(ctx, "owner-1", config.TierExempt); err != nil {
		t.Fatalf("SetTier failed: %v", err)
	}

	balance, err := ledger.Balance(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.Unlimited {
		t.Fatalf("expected exempt after tier change, got %#v", balance)
	}

	if err := ledger.SetTier(ctx, "owner-1", "platinum"); err == nil {
		t.Fatal("expected unknown tier to be rejected")
	}
}
