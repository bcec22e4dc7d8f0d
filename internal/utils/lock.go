package utils

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a waiting writer polls the lock file.
const lockRetryDelay = 250 * time.Millisecond

var ErrNoArchivePath = errors.New("archive path is empty")

// ArchiveLock is an exclusive, cross-process lock on one archive file. The
// lock lives in "<archive>.lock" beside it.
type ArchiveLock struct {
	fl *flock.Flock
}

// LockArchive takes the lock for the archive at dbPath, waiting for other
// writers until ctx is done.
func LockArchive(ctx context.Context, dbPath string) (*ArchiveLock, error) {
	if dbPath == "" {
		return nil, ErrNoArchivePath
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolving archive path: %w", err)
	}

	fl := flock.New(abs + ".lock")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
	}
	if !locked {
		Log.Warnf("Archive %s is being written by another process, waiting...", abs)
		if locked, err = fl.TryLockContext(ctx, lockRetryDelay); !locked {
			return nil, fmt.Errorf("locking %s: %w", fl.Path(), err)
		}
	}
	Log.Debugf("Locked %s", fl.Path())
	return &ArchiveLock{fl: fl}, nil
}

func (l *ArchiveLock) Path() string {
	return l.fl.Path()
}

// Release is safe to call more than once.
func (l *ArchiveLock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlocking %s: %w", l.fl.Path(), err)
	}
	return nil
}
