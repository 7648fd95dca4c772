package unit

import (
	"context"
	"errors"
	"testing"

	"github.com/urban-mobility/routeplan/blob"
	"github.com/urban-mobility/routeplan/config"
)

func TestFSStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := blob.NewFSStore(t.TempDir())

	if err := store.Put(ctx, "cache/routes/fp1.json", []byte(`{"a":1}`), "application/json"); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	data, err := store.Get(ctx, "cache/routes/fp1.json")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected data: %s", data)
	}

	if err := store.Delete(ctx, "cache/routes/fp1.json"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "cache/routes/fp1.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFSStore_GetAbsentIsErrNotFound(t *testing.T) {
	store := blob.NewFSStore(t.TempDir())
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_DeleteAbsentIsNoError(t *testing.T) {
	store := blob.NewFSStore(t.TempDir())
	if err := store.Delete(context.Background(), "nope"); err != nil {
		t.Errorf("deleting an absent key must not error, got %v", err)
	}
}

func TestFSStore_ListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := blob.NewFSStore(t.TempDir())

	for _, key := range []string{
		"cache/routes/a.json",
		"cache/routes/b.json",
		"cache/schedules/c.json",
	} {
		if err := store.Put(ctx, key, []byte("{}"), "application/json"); err != nil {
			t.Fatalf("put %s failed: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "cache/routes/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys under cache/routes/, got %v", keys)
	}

	all, err := store.List(ctx, "cache/")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 keys under cache/, got %v", all)
	}
}

func TestFSStore_ListEmptyRoot(t *testing.T) {
	store := blob.NewFSStore(t.TempDir())
	keys, err := store.List(context.Background(), "cache/")
	if err != nil {
		t.Fatalf("list on empty root failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestNewFromConfig_BackendSelection(t *testing.T) {
	store, err := blob.NewFromConfig(config.StoreConfig{Backend: "fs", LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("fs backend failed: %v", err)
	}
	if _, ok := store.(*blob.FSStore); !ok {
		t.Errorf("expected an FSStore, got %T", store)
	}

	if _, err := blob.NewFromConfig(config.StoreConfig{Backend: "ftp"}); err == nil {
		t.Error("unknown backend should error")
	}
}
