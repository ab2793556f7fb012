package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordProcessedEvent_DuplicateDetected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := RecordProcessedEvent(ctx, db, "evt_1", "checkout_completed"); err != nil {
		t.Fatalf("first record: %v", err)
	}

	err := RecordProcessedEvent(ctx, db, "evt_1", "checkout_completed")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on replay, got %v", err)
	}
}

func TestSeenEvent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seen, err := SeenEvent(ctx, db, "evt_missing")
	if err != nil || seen {
		t.Fatalf("SeenEvent(missing) = (%v, %v); want (false, nil)", seen, err)
	}
	// Blank ids never match anything.
	if seen, err := SeenEvent(ctx, db, "  "); err != nil || seen {
		t.Fatalf("SeenEvent(blank) = (%v, %v); want (false, nil)", seen, err)
	}

	if err := RecordProcessedEvent(ctx, db, "evt_2", "payment_failed"); err != nil {
		t.Fatalf("record: %v", err)
	}
	seen, err = SeenEvent(ctx, db, "evt_2")
	if err != nil || !seen {
		t.Fatalf("SeenEvent(evt_2) = (%v, %v); want (true, nil)", seen, err)
	}
}

func TestPruneProcessedEvents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := RecordProcessedEvent(ctx, db, "evt_old", "checkout_completed"); err != nil {
		t.Fatalf("record: %v", err)
	}
	db.Exec("UPDATE processed_events SET applied_at = ? WHERE event_id = ?",
		time.Now().UTC().Add(-48*time.Hour), "evt_old")
	if err := RecordProcessedEvent(ctx, db, "evt_new", "checkout_completed"); err != nil {
		t.Fatalf("record: %v", err)
	}

	n, err := PruneProcessedEvents(ctx, db, time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned row, got %d", n)
	}

	seen, _ := SeenEvent(ctx, db, "evt_new")
	if !seen {
		t.Fatal("recent event should survive pruning")
	}
}
