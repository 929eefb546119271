package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_SetGetRoundTrip(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	value := []byte(`{"name":"अमित"}`)
	if err := store.Set(ctx, "mdc_students", value); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "mdc_students")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("expected %q, got %q", value, got)
	}
}

func TestRedisStore_GetMissingKey(t *testing.T) {
	store := setupTestRedis(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestRedisStore_KeysAreNamespaced(t *testing.T) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer store.Close()

	if err := store.Set(context.Background(), "mdc_settings", []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.Exists("mdc:mdc_settings") {
		t.Error("expected value stored under the mdc: prefix")
	}
}

func TestRedisStore_Ping(t *testing.T) {
	store := setupTestRedis(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore("not a url"); err == nil {
		t.Error("expected error for malformed url")
	}
}
