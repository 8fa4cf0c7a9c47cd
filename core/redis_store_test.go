package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisStoreOptions{
		RedisURL: "redis://" + mr.Addr(),
	})
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRedisStoreSetGet(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "key1", "value1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "value1" {
		t.Errorf("expected value1, got %q", got)
	}
}

func TestRedisStoreMissReturnsEmpty(t *testing.T) {
	store := newTestRedisStore(t)

	got, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected a miss to not error, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty string for a miss, got %q", got)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisStoreOptions{RedisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()
	ctx := context.Background()

	if err := store.Set(ctx, "ephemeral", "v", time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mr.FastForward(2 * time.Second)

	got, err := store.Get(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected expired key to read empty, got %q", got)
	}
}

func TestRedisStoreDeleteAndExists(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "key1", "value1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exists, err := store.Exists(ctx, "key1")
	if err != nil || !exists {
		t.Fatalf("expected key to exist, exists=%v err=%v", exists, err)
	}
	if err := store.Delete(ctx, "key1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exists, err = store.Exists(ctx, "key1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected deleted key to not exist")
	}
}

func TestRedisStoreKeysAreNamespaced(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(RedisStoreOptions{
		RedisURL:  "redis://" + mr.Addr(),
		Namespace: "testns",
	})
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := store.Set(context.Background(), "key1", "v", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mr.Exists("testns:key1") {
		t.Errorf("expected namespaced key testns:key1, have %v", mr.Keys())
	}
}

func TestNewRedisStoreConfigErrors(t *testing.T) {
	_, err := NewRedisStore(RedisStoreOptions{})
	if !errors.Is(err, ErrMissingConfiguration) {
		t.Errorf("expected ErrMissingConfiguration, got %v", err)
	}

	_, err = NewRedisStore(RedisStoreOptions{RedisURL: "://bad"})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
