package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLock_LockUnlock(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "history.json.lock")
	lock := NewFileLock(lockPath)

	if err := lock.Lock(context.Background()); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Errorf("second Unlock() = %v, want nil", err)
	}
}

func TestFileLock_WaitsForHolder(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "history.json.lock")
	holder := NewFileLock(lockPath)
	if err := holder.Lock(context.Background()); err != nil {
		t.Fatalf("holder Lock() error = %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		waiter := NewFileLock(lockPath)
		err := waiter.Lock(context.Background())
		if err == nil {
			waiter.Unlock()
		}
		acquired <- err
	}()

	select {
	case <-acquired:
		t.Fatal("waiter acquired the lock while it was held")
	case <-time.After(5 * lockRetry):
	}

	if err := holder.Unlock(); err != nil {
		t.Fatalf("holder Unlock() error = %v", err)
	}
	select {
	case err := <-acquired:
		if err != nil {
			t.Errorf("waiter Lock() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("waiter did not acquire the released lock")
	}
}

func TestFileLock_ContextDone(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "history.json.lock")
	holder := NewFileLock(lockPath)
	if err := holder.Lock(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*lockRetry)
	defer cancel()
	err := NewFileLock(lockPath).Lock(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lock() while held = %v, want DeadlineExceeded", err)
	}
}

func TestFileLock_MissingDirectory(t *testing.T) {
	t.Parallel()

	lock := NewFileLock(filepath.Join(t.TempDir(), "absent", "x.lock"))
	if err := lock.Lock(context.Background()); err == nil {
		lock.Unlock()
		t.Error("Lock() in a missing directory = nil, want error")
	}
}

func TestWithLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	called := false
	if err := WithLock(ctx, path, func() error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("WithLock() error = %v", err)
	}
	if !called {
		t.Error("fn was not called")
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Errorf("lock file: %v", err)
	}

	boom := errors.New("boom")
	if err := WithLock(ctx, path, func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("WithLock() error = %v, want %v", err, boom)
	}
}
