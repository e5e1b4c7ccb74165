package takes_test

import (
	"context"
	"testing"

	"stitch/internal/takes"
	"stitch/internal/testsupport"
)

func TestRegisterIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, err := store.Register(ctx, "clip_01.mp4", "/videos/clip_01.mp4")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected take ID to be assigned")
	}
	if first.Status != takes.StatusPending {
		t.Fatalf("expected pending status, got %s", first.Status)
	}

	second, err := store.Register(ctx, "clip_01.mp4", "/videos/clip_01.mp4")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing row back, got id %d want %d", second.ID, first.ID)
	}
}

func TestRegisterRequiresSourceID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Register(context.Background(), "", "/videos/x.mp4"); err == nil {
		t.Fatal("expected error when source id missing")
	}
}

func TestMarkTranscribedAndFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	take, err := store.Register(ctx, "clip_02.mp4", "/videos/clip_02.mp4")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := store.MarkTranscribed(ctx, take.ID, "take the dog out", 12.5); err != nil {
		t.Fatalf("MarkTranscribed failed: %v", err)
	}
	updated, err := store.GetByID(ctx, take.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !updated.Transcribed() {
		t.Fatalf("expected transcribed take, got %#v", updated)
	}
	if updated.DurationSeconds != 12.5 {
		t.Fatalf("duration = %f, want 12.5", updated.DurationSeconds)
	}

	if err := store.MarkFailed(ctx, take.ID, "whisper exited 1"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	failed, err := store.GetByID(ctx, take.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if failed.Status != takes.StatusFailed || failed.ErrorMessage != "whisper exited 1" {
		t.Fatalf("unexpected failed take: %#v", failed)
	}
}

func TestResetStuckTranscribing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stuck, err := store.Register(ctx, "clip_03.mp4", "/videos/clip_03.mp4")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	stuck.Status = takes.StatusTranscribing
	if err := store.Update(ctx, stuck); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	done, err := store.Register(ctx, "clip_04.mp4", "/videos/clip_04.mp4")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.MarkTranscribed(ctx, done.ID, "close the door", 8.0); err != nil {
		t.Fatalf("MarkTranscribed failed: %v", err)
	}

	count, err := store.ResetStuckTranscribing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckTranscribing failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 take reset, got %d", count)
	}

	reset, err := store.GetByID(ctx, stuck.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reset.Status != takes.StatusPending {
		t.Fatalf("expected pending after reset, got %s", reset.Status)
	}
	untouched, err := store.GetByID(ctx, done.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != takes.StatusTranscribed {
		t.Fatalf("expected transcribed take untouched, got %s", untouched.Status)
	}
}

func TestListOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	for _, name := range []string{"clip_09.mp4", "clip_01.mp4", "clip_05.mp4"} {
		if _, err := store.Register(ctx, name, "/videos/"+name); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"clip_01.mp4", "clip_05.mp4", "clip_09.mp4"}
	if len(listed) != len(want) {
		t.Fatalf("listed %d takes, want %d", len(listed), len(want))
	}
	for i, take := range listed {
		if take.SourceID != want[i] {
			t.Fatalf("position %d = %s, want %s", i, take.SourceID, want[i])
		}
	}
}
