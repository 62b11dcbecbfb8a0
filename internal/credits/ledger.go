package credits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
)

// Balance is the derived credit position for one owner.
type Balance struct {
	Tier      string
	Included  int
	Used      int
	Available int
	Unlimited bool
}

// CanAfford reports whether the balance covers n more completions.
func (b Balance) CanAfford(n int) bool {
	if b.Unlimited {
		return true
	}
	return b.Available >= n
}

// Ledger reads and charges per-owner credit accounts. Accounts are
// provisioned lazily from the configured defaults the first time an owner
// touches the ledger.
type Ledger struct {
	db              *sql.DB
	defaultTier     string
	defaultIncluded int
}

// NewLedger builds a ledger over the shared queue database.
func NewLedger(store *queue.Store, cfg *config.Config) *Ledger {
	return &Ledger{
		db:              store.DB(),
		defaultTier:     cfg.Credits.DefaultTier,
		defaultIncluded: cfg.Credits.DefaultIncluded,
	}
}

// EnsureAccount provisions the owner's account when it does not exist yet.
// Existing accounts are left untouched.
func (l *Ledger) EnsureAccount(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return errors.New("owner id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := l.db.ExecContext(
		ctx,
		`INSERT INTO credit_accounts (owner_id, tier, credits_included, credits_used, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)
         ON CONFLICT(owner_id) DO NOTHING`,
		ownerID,
		l.defaultTier,
		l.defaultIncluded,
		now,
		now,
	); err != nil {
		return fmt.Errorf("ensure credit account: %w", err)
	}
	return nil
}

// Balance returns the owner's current credit position, provisioning the
// account on first touch.
func (l *Ledger) Balance(ctx context.Context, ownerID string) (Balance, error) {
	if err := l.EnsureAccount(ctx, ownerID); err != nil {
		return Balance{}, err
	}

	var (
		tier     string
		included int
		used     int
	)
	row := l.db.QueryRowContext(
		ctx,
		`SELECT tier, credits_included, credits_used FROM credit_accounts WHERE owner_id = ?`,
		ownerID,
	)
	if err := row.Scan(&tier, &included, &used); err != nil {
		return Balance{}, fmt.Errorf("read credit account: %w", err)
	}

	balance := Balance{Tier: tier, Included: included, Used: used}
	if tier == config.TierExempt {
		balance.Unlimited = true
		return balance, nil
	}
	if available := included - used; available > 0 {
		balance.Available = available
	}
	return balance, nil
}

// Charge consumes one credit for a completed item. Exempt accounts are never
// charged; the guard lives in the statement itself so the increment and the
// tier check are atomic. Returns whether a credit was actually consumed.
func (l *Ledger) Charge(ctx context.Context, ownerID string) (bool, error) {
	if err := l.EnsureAccount(ctx, ownerID); err != nil {
		return false, err
	}
	res, err := l.db.ExecContext(
		ctx,
		`UPDATE credit_accounts SET credits_used = credits_used + 1, updated_at = ?
         WHERE owner_id = ? AND tier != ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		ownerID,
		config.TierExempt,
	)
	if err != nil {
		return false, fmt.Errorf("charge credit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetTier switches an owner's tier, provisioning the account if needed.
func (l *Ledger) SetTier(ctx context.Context, ownerID, tier string) error {
	if tier != config.TierStandard && tier != config.TierExempt {
		return fmt.Errorf("unknown tier %q", tier)
	}
	if err := l.EnsureAccount(ctx, ownerID); err != nil {
		return err
	}
	if _, err := l.db.ExecContext(
		ctx,
		`UPDATE credit_accounts SET tier = ?, updated_at = ? WHERE owner_id = ?`,
		tier,
		time.Now().UTC().Format(time.RFC3339Nano),
		ownerID,
	); err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}
