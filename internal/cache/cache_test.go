package cache

import (
	"context"
	"path"
	"testing"
)

func TestAvailabilityKey(t *testing.T) {
	key := availabilityKey(7, 3, "2026-03-02")
	if key != "availability:7:3:2026-03-02" {
		t.Fatalf("unexpected key %q", key)
	}

	matched, err := path.Match(doctorPattern(7), key)
	if err != nil || !matched {
		t.Errorf("doctor pattern must match the doctor's keys")
	}
	if matched, _ := path.Match(doctorPattern(71), key); matched {
		t.Errorf("doctor pattern must not match other doctors")
	}
}

func TestNop(t *testing.T) {
	var c AvailabilityCache = Nop{}
	ctx := context.Background()

	if err := c.Set(ctx, 1, 2, "2026-03-02", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, err := c.Get(ctx, 1, 2, "2026-03-02"); ok || err != nil {
		t.Fatalf("nop cache must always miss, got ok=%v err=%v", ok, err)
	}
}
