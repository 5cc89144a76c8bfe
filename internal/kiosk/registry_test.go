package kiosk

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/metrics"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(testConfig(), &stubPurchaser{}, metrics.NewKioskMetrics(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(registry.Close)
	return registry
}

func TestNewRegistryRequiresPurchaserAndDenominations(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(testConfig(), nil, nil, nil); err == nil {
		t.Fatal("expected error for nil purchaser")
	}

	cfg := testConfig()
	cfg.Denominations = nil
	if _, err := NewRegistry(cfg, &stubPurchaser{}, nil, nil); err == nil {
		t.Fatal("expected error for empty denomination set")
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	created := registry.Create()
	if created.ID == "" {
		t.Fatal("expected a session id")
	}

	got, err := registry.Get(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != created {
		t.Fatal("get must return the same session instance")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", registry.Len())
	}

	snap := created.Snapshot()
	if snap.State != "idle" || len(snap.Cart.Items) != 0 {
		t.Fatalf("fresh session must be idle and empty: %+v", snap)
	}
	if snap.Tabs.Catalog != "all" || snap.Tabs.Money != "overview" {
		t.Fatalf("unexpected default tabs: %+v", snap.Tabs)
	}
}

func TestGetUnknownSession(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	_, err := registry.Get("missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	created := registry.Create()

	registry.Remove(created.ID)
	if registry.Len() != 0 {
		t.Fatalf("expected 0 live sessions, got %d", registry.Len())
	}
	if _, err := registry.Get(created.ID); err == nil {
		t.Fatal("removed session must not resolve")
	}

	// Removing twice is a no-op.
	registry.Remove(created.ID)
}

func TestReapDropsIdleSessions(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry(t)
	stale := registry.Create()
	fresh := registry.Create()

	// Touch the fresh session at a later wall-clock instant than the cutoff
	// used below, then reap as if a full TTL has passed since the stale one
	// was last seen.
	cutoff := time.Now().Add(testConfig().SessionTTL + time.Minute)
	fresh.mu.Lock()
	fresh.lastSeen = cutoff
	fresh.mu.Unlock()

	registry.reap(context.Background(), cutoff)

	if _, err := registry.Get(stale.ID); err == nil {
		t.Fatal("stale session must be reaped")
	}
	if _, err := registry.Get(fresh.ID); err != nil {
		t.Fatalf("fresh session must survive: %v", err)
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 live session, got %d", registry.Len())
	}
}

func TestReapDisabledWithoutTTL(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SessionTTL = 0
	registry, err := NewRegistry(cfg, &stubPurchaser{}, metrics.NewKioskMetrics(nil), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(registry.Close)

	registry.Create()
	registry.reap(context.Background(), time.Now().Add(24*time.Hour))
	if registry.Len() != 1 {
		t.Fatalf("reap must be a no-op without a TTL, got %d sessions", registry.Len())
	}
}
