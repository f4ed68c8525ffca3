package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// lockRetry is how often Lock polls while another process holds the lock.
const lockRetry = 20 * time.Millisecond

// FileLock is an exclusive advisory lock (flock) on a lock file, used to
// serialize read-modify-write cycles of files shared between concurrent
// repops processes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock returns an unlocked lock on path. The file is created on
// the first Lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires the lock, waiting while another holder has it. It gives up
// with ctx's error once ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}

	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			l.file = f
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			f.Close()
			return err
		}

		select {
		case <-ctx.Done():
			f.Close()
			return fmt.Errorf("lock %s: %w", l.path, ctx.Err())
		case <-time.After(lockRetry):
		}
	}
}

// Unlock releases the lock. Unlocking a lock that is not held is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WithLock runs fn while holding "<path>.lock", creating the parent
// directory of path first.
func WithLock(ctx context.Context, path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	lock := NewFileLock(path + ".lock")
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}
