package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"clipcast/types"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := &types.Project{ID: "p1", Topic: "volcanoes", Status: types.StatusPending}
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Topic != "volcanoes" || got.Status != types.StatusPending {
		t.Errorf("got %+v", got)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSnapshotsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	p := &types.Project{ID: "p1", Scenes: []types.Scene{{Text: "original"}}}
	s.Put(ctx, p)

	// Mutating the caller's copy must not leak into the store.
	p.Scenes[0].Text = "mutated"

	got, _ := s.Get(ctx, "p1")
	if got.Scenes[0].Text != "original" {
		t.Errorf("store leaked caller mutation: %q", got.Scenes[0].Text)
	}

	// Mutating a returned snapshot must not leak either.
	got.Scenes[0].Text = "mutated again"
	again, _ := s.Get(ctx, "p1")
	if again.Scenes[0].Text != "original" {
		t.Errorf("store leaked snapshot mutation: %q", again.Scenes[0].Text)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	s.Put(ctx, &types.Project{ID: "p1", Progress: 0})

	got, err := s.Update(ctx, "p1", func(p *types.Project) {
		p.Progress = 42
		p.Status = types.StatusGeneratingImages
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Progress != 42 || got.Status != types.StatusGeneratingImages {
		t.Errorf("update result = %+v", got)
	}

	stored, _ := s.Get(ctx, "p1")
	if stored.Progress != 42 {
		t.Errorf("stored progress = %d", stored.Progress)
	}
}

func TestMemoryStoreUpdateUnknown(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Update(context.Background(), "nope", func(p *types.Project) {})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	s.Put(ctx, &types.Project{ID: "old", CreatedAt: base.Add(-time.Hour)})
	s.Put(ctx, &types.Project{ID: "new", CreatedAt: base})
	s.Put(ctx, &types.Project{ID: "mid", CreatedAt: base.Add(-time.Minute)})

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d", len(list))
	}
	order := []string{list[0].ID, list[1].ID, list[2].ID}
	want := []string{"new", "mid", "old"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
