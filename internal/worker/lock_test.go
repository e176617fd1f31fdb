package worker

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireIsExclusive(t *testing.T) {
	store := newFakeStore()
	first, err := NewRedisLock(store, "magsync:worker", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "magsync:worker", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := first.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second instance must not acquire a held lock")
	}

	if err := first.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseOnlyOwnLock(t *testing.T) {
	store := newFakeStore()
	lock, err := NewRedisLock(store, "magsync:worker", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	// Never acquired; release is a no-op.
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release without acquire: %v", err)
	}

	if _, err := lock.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// Simulate TTL expiry and takeover by another owner.
	store.values["magsync:worker"] = "someone-else"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release after takeover: %v", err)
	}
	if store.values["magsync:worker"] != "someone-else" {
		t.Fatal("released a lock owned by another instance")
	}
}
