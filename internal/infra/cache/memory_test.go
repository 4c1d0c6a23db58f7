package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aperture/internal/domain"
)

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory(MemoryConfig{})
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := domain.Reject(domain.ReasonProofInvalid)
	if err := c.Put(ctx, "k", want, 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Valid != want.Valid || got.Reason != want.Reason {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMemoryExpiry(t *testing.T) {
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(MemoryConfig{Now: func() time.Time { return clock }})
	ctx := context.Background()

	if err := c.Put(ctx, "k", domain.Accept(), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("entry must be live inside its TTL")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("expired entry must not be returned")
	}
}

func TestMemorySweepsExpiredAtCapacity(t *testing.T) {
	clock := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory(MemoryConfig{Now: func() time.Time { return clock }, MaxEntries: 4})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := c.Put(ctx, fmt.Sprintf("old-%d", i), domain.Accept(), time.Minute); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	// All four expire; the next insert reclaims their slots instead of
	// evicting anything live.
	clock = clock.Add(2 * time.Minute)
	if err := c.Put(ctx, "fresh", domain.Accept(), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "fresh"); !ok {
		t.Fatal("fresh entry must survive the sweep")
	}
	if len(c.entries) != 1 {
		t.Fatalf("expected only the fresh entry after sweep, got %d", len(c.entries))
	}
}

func TestMemoryEvictsWhenFull(t *testing.T) {
	c := NewMemory(MemoryConfig{MaxEntries: 4})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := c.Put(ctx, fmt.Sprintf("k-%d", i), domain.Accept(), 0); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := c.Put(ctx, "extra", domain.Accept(), 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	if len(c.entries) > 4 {
		t.Fatalf("cache exceeded its cap: %d entries", len(c.entries))
	}
	if _, ok, _ := c.Get(ctx, "extra"); !ok {
		t.Fatal("newest entry must be present after eviction")
	}
}

func TestMemoryOverwriteDoesNotEvict(t *testing.T) {
	c := NewMemory(MemoryConfig{MaxEntries: 2})
	ctx := context.Background()

	if err := c.Put(ctx, "a", domain.Accept(), 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, "b", domain.Accept(), 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Put(ctx, "a", domain.Reject(domain.ReasonRootMismatch), 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, _ := c.Get(ctx, "a")
	if !ok || got.Valid {
		t.Fatalf("overwrite must update in place, got ok=%v %+v", ok, got)
	}
	if _, ok, _ := c.Get(ctx, "b"); !ok {
		t.Fatal("overwriting an existing key must not evict others")
	}
}
