package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestTryLockUnlock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	acquired, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock error: %v", err)
	}
	if !acquired {
		t.Fatal("TryLock should succeed on a free lock")
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestTryLockContention(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	first := NewFileLock(lockPath)
	if acquired, err := first.TryLock(); err != nil || !acquired {
		t.Fatalf("Failed to acquire lock: acquired=%v err=%v", acquired, err)
	}
	defer first.Unlock()

	// flock locks are per open file description, so a second handle contends
	second := NewFileLock(lockPath)
	acquired, err := second.TryLock()
	if err != nil {
		t.Fatalf("TryLock error: %v", err)
	}
	if acquired {
		second.Unlock()
		t.Fatal("TryLock should fail while another handle holds the lock")
	}
}

func TestAcquireRunLock(t *testing.T) {
	root := t.TempDir()

	lock, err := AcquireRunLock(root)
	if err != nil {
		t.Fatalf("AcquireRunLock() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, RunLockName)); err != nil {
		t.Errorf("lock file not created: %v", err)
	}

	_, err = AcquireRunLock(root)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("second AcquireRunLock() error = %v, want ErrLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	again, err := AcquireRunLock(root)
	if err != nil {
		t.Fatalf("AcquireRunLock() after unlock error = %v", err)
	}
	again.Unlock()
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "reports", "run-1.md")

	if err := AtomicWrite(target, []byte("first")); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if err := AtomicWrite(target, []byte("second")); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
