package lockfile

import (
	"errors"
	"io/fs"
	"os"
)

// Lockfile guards a file by creating <path>.lock exclusively. Writes go
// to the lock and replace the file on Commit.
type Lockfile struct {
	filePath string
	lockPath string
	lock     *os.File
}

func NewLockfile(filePath string) *Lockfile {
	return &Lockfile{
		filePath: filePath,
		lockPath: filePath + ".lock",
	}
}

func (lf *Lockfile) HoldForUpdate() error {
	if lf.lock != nil {
		return nil
	}

	lock, err := os.OpenFile(lf.lockPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	switch {
	case err == nil:
		lf.lock = lock
		return nil
	case errors.Is(err, fs.ErrExist):
		return &LockDeniedError{Message: "Unable to create '" + lf.lockPath + "': File exists."}
	case errors.Is(err, fs.ErrNotExist):
		return &MissingParentError{Message: err.Error()}
	case errors.Is(err, fs.ErrPermission):
		return &NoPermissionError{Message: err.Error()}
	}
	return err
}

func (lf *Lockfile) Holding() bool {
	return lf.lock != nil
}

func (lf *Lockfile) Write(data []byte) error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	_, err := lf.lock.Write(data)
	return err
}

func (lf *Lockfile) Commit() error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	if err := lf.lock.Close(); err != nil {
		return err
	}
	if err := os.Rename(lf.lockPath, lf.filePath); err != nil {
		return err
	}
	lf.lock = nil
	return nil
}

func (lf *Lockfile) Rollback() error {
	if err := lf.raiseOnStaleLock(); err != nil {
		return err
	}
	if err := lf.lock.Close(); err != nil {
		return err
	}
	if err := os.Remove(lf.lockPath); err != nil {
		return err
	}
	lf.lock = nil
	return nil
}

func (lf *Lockfile) raiseOnStaleLock() error {
	if lf.lock == nil {
		return &StaleLockError{Message: "Not holding lock on file: " + lf.lockPath}
	}
	return nil
}
