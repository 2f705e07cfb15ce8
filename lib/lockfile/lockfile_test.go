package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLockfile(t *testing.T) {
	t.Run("replaces the file on commit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		lf := NewLockfile(path)

		if err := lf.HoldForUpdate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lf.Write([]byte("[core]\n")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lf.Commit(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, _ := os.ReadFile(path)
		if string(data) != "[core]\n" {
			t.Errorf("want %q, but got %q", "[core]\n", string(data))
		}
		if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
			t.Errorf("want the lock to be gone, but got %v", err)
		}
	})

	t.Run("denies a second lock", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		first := NewLockfile(path)
		if err := first.HoldForUpdate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer first.Rollback()

		err := NewLockfile(path).HoldForUpdate()
		if _, ok := err.(*LockDeniedError); !ok {
			t.Errorf("want *LockDeniedError, but got %v", err)
		}
	})

	t.Run("reports a missing parent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "config")
		err := NewLockfile(path).HoldForUpdate()
		if _, ok := err.(*MissingParentError); !ok {
			t.Errorf("want *MissingParentError, but got %v", err)
		}
	})

	t.Run("refuses to write without the lock", func(t *testing.T) {
		lf := NewLockfile(filepath.Join(t.TempDir(), "config"))
		if _, ok := lf.Write([]byte("x")).(*StaleLockError); !ok {
			t.Errorf("want *StaleLockError")
		}
		if _, ok := lf.Commit().(*StaleLockError); !ok {
			t.Errorf("want *StaleLockError")
		}
	})

	t.Run("rollback leaves the file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config")
		os.WriteFile(path, []byte("old"), 0644)

		lf := NewLockfile(path)
		lf.HoldForUpdate()
		lf.Write([]byte("new"))
		if err := lf.Rollback(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lf.Holding() {
			t.Errorf("want the lock to be released")
		}

		data, _ := os.ReadFile(path)
		if string(data) != "old" {
			t.Errorf("want %q, but got %q", "old", string(data))
		}
	})
}
