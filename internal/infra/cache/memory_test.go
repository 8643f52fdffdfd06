package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v"), 100*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, ok, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || string(data) != "v" {
		t.Errorf("expected fresh entry, got ok=%v data=%q", ok, data)
	}
}

func TestMemoryLazyExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 50*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	_, ok, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected expired entry to be absent")
	}
	// The discovering read removes the dead entry.
	if m.Len() != 0 {
		t.Errorf("expected entry physically removed, %d resident", m.Len())
	}
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, ok, err := m.Get(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemoryDefaultTTL(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 0)

	m.mu.RLock()
	e := m.entries["k"]
	m.mu.RUnlock()
	if e.ttl != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, e.ttl)
	}
}

func TestMemoryInvalidate(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), time.Minute)
	if err := m.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("expected entry removed")
	}

	// Removing an absent key is not an error.
	if err := m.Invalidate(ctx, "k"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMemoryInvalidatePattern(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "chat_1", []byte("a"), time.Minute)
	_ = m.Set(ctx, "chat_2", []byte("b"), time.Minute)
	_ = m.Set(ctx, "dash_1", []byte("c"), time.Minute)

	removed, err := m.InvalidatePattern(ctx, "^chat_")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok, _ := m.Get(ctx, "chat_1"); ok {
		t.Error("chat_1 should be gone")
	}
	if _, ok, _ := m.Get(ctx, "chat_2"); ok {
		t.Error("chat_2 should be gone")
	}
	if _, ok, _ := m.Get(ctx, "dash_1"); !ok {
		t.Error("dash_1 must survive")
	}
}

func TestMemoryInvalidatePatternEmpty(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	removed, err := m.InvalidatePattern(context.Background(), "^chat_")
	if err != nil {
		t.Fatalf("unexpected error on empty cache: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
}

func TestMemoryInvalidatePatternBadExpr(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	if _, err := m.InvalidatePattern(context.Background(), "["); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty cache, %d resident", m.Len())
	}
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("old"), time.Minute)
	_ = m.Set(ctx, "k", []byte("new"), time.Minute)

	data, ok, _ := m.Get(ctx, "k")
	if !ok || string(data) != "new" {
		t.Errorf("expected last write to win, got ok=%v data=%q", ok, data)
	}
}

func TestMemorySweepRemovesUnreadEntries(t *testing.T) {
	m := NewMemory(WithSweepInterval(20 * time.Millisecond))
	defer m.Close()
	ctx := context.Background()

	_ = m.Set(ctx, "k", []byte("v"), 10*time.Millisecond)

	deadline := time.After(time.Second)
	for m.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("sweep did not reclaim the expired entry")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
