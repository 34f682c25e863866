package session

import (
	"context"
	"testing"
	"time"

	"github.com/voltmesh/solarbot/internal/energy"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Get(ctx, "100")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("Get on empty store = %+v, want nil", got)
	}

	sess, err := store.GetOrCreate(ctx, "100")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if sess.State != StateNewUser {
		t.Errorf("new session state = %q, want %q", sess.State, StateNewUser)
	}
	if sess.LastUpdated.IsZero() {
		t.Error("new session should be stamped")
	}

	sess.State = StateOnboardAddress
	sess.Address = "12 Main St"
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err = store.Get(ctx, "100")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != StateOnboardAddress || got.Address != "12 Main St" {
		t.Errorf("reloaded session = %+v", got)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}

	if err := store.Delete(ctx, "100"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = store.Get(ctx, "100")
	if got != nil {
		t.Error("session should be gone after Delete")
	}
}

func TestMemoryStoreClones(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, _ := store.GetOrCreate(ctx, "1")
	sess.Subsidies = []energy.Subsidy{{ID: "sub-1", Name: "Rebate"}}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	sess.Subsidies[0].Name = "changed"
	got, _ := store.Get(ctx, "1")
	if got.Subsidies[0].Name != "Rebate" {
		t.Errorf("store shares memory with caller: %q", got.Subsidies[0].Name)
	}
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return base })
	if _, err := store.GetOrCreate(ctx, "old"); err != nil {
		t.Fatal(err)
	}

	store.SetClock(func() time.Time { return base.AddDate(0, 0, 40) })
	if _, err := store.GetOrCreate(ctx, "fresh"); err != nil {
		t.Fatal(err)
	}

	pruned, err := store.PruneOlderThan(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if got, _ := store.Get(ctx, "old"); got != nil {
		t.Error("stale session should be pruned")
	}
	if got, _ := store.Get(ctx, "fresh"); got == nil {
		t.Error("fresh session should survive")
	}
}

func TestSessionDefaults(t *testing.T) {
	sess := New("1")
	if sess.SystemSize() != DefaultSystemSizeKW {
		t.Errorf("SystemSize = %v, want default", sess.SystemSize())
	}
	if sess.Months() != DefaultMonthsActive {
		t.Errorf("Months = %v, want default", sess.Months())
	}
	settings := sess.TradeSettings()
	if settings.AutoParticipation {
		t.Error("unconfigured sessions must not auto-participate")
	}
	if sess.AutoTradingEnabled() {
		t.Error("AutoTradingEnabled should be false by default")
	}
}

func TestRecordTransaction(t *testing.T) {
	sess := New("1")
	sess.RecordTransaction(energy.Transaction{Type: "grid_sale", Total: 1.5})
	sess.RecordTransaction(energy.Transaction{Type: "p2p_share", Total: 0.5})
	sess.RecordTransaction(energy.Transaction{Type: "grid_purchase", Total: 0.4})

	if sess.TotalEarnings != 2 {
		t.Errorf("TotalEarnings = %v, want 2", sess.TotalEarnings)
	}
	if sess.TotalCosts != 0.4 {
		t.Errorf("TotalCosts = %v, want 0.4", sess.TotalCosts)
	}
	if len(sess.Transactions) != 3 {
		t.Errorf("Transactions = %d, want 3", len(sess.Transactions))
	}
}
