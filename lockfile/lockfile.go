// Package lockfile implements the container's cross-process coordination
// protocol: a sentinel file whose mere existence signals an in-flight write,
// layered with a POSIX advisory lock on the data file itself.
//
// A reader waits for the sentinel to disappear, then takes a shared
// (LOCK_SH) non-blocking flock, retrying on a fixed poll interval up to a
// read timeout. A writer creates the sentinel itself (claiming ownership),
// then takes an exclusive (LOCK_EX) non-blocking flock the same way, up to
// a write timeout; if it times out without ever acquiring the data lock, it
// removes the sentinel it created so it doesn't block everyone else
// forever.
package lockfile

import (
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/unix"

	"github.com/colpack/colpack/errs"
)

const pollInterval = 100 * time.Millisecond

// DefaultReadTimeout is the default budget for acquiring a shared lock.
const DefaultReadTimeout = 30 * time.Second

// DefaultWriteTimeout is the default budget for acquiring an exclusive lock.
const DefaultWriteTimeout = 60 * time.Second

// Option configures a Lock.
type Option func(*config)

type config struct {
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// WithReadTimeout overrides DefaultReadTimeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout overrides DefaultWriteTimeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) { c.writeTimeout = d }
}

// Lock coordinates shared/exclusive access to a single data file path
// across processes.
type Lock struct {
	path       string
	sentinel   string
	cfg        config
	ownerToken string
}

// New creates a Lock for the data file at path. The sentinel file lives
// alongside it at path+".lock".
func New(path string, opts ...Option) *Lock {
	cfg := config{readTimeout: DefaultReadTimeout, writeTimeout: DefaultWriteTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Lock{
		path:       path,
		sentinel:   path + ".lock",
		cfg:        cfg,
		ownerToken: newOwnerToken(path),
	}
}

// newOwnerToken derives a short, process-local identifier for the sentinel
// file's content: useful for diagnosing which writer is currently holding
// the lock, never parsed by another process (the protocol only checks the
// sentinel's existence).
func newOwnerToken(path string) string {
	h := xxhash.New()
	fmt.Fprintf(h, "%s:%d:%d", path, os.Getpid(), time.Now().UnixNano())
	return fmt.Sprintf("%016x", h.Sum64())
}

// Handle is an acquired lock; callers must call Close to release it.
type Handle struct {
	file         *os.File
	sentinelPath string
	ownsSentinel bool
}

// File returns the underlying open file, for callers that need to read or
// write through it directly while the lock is held.
func (h *Handle) File() *os.File { return h.file }

// Close releases the advisory lock, closes the file handle, and removes the
// sentinel file if this handle created it (writers only).
func (h *Handle) Close() error {
	err := unix.Flock(int(h.file.Fd()), unix.LOCK_UN)
	closeErr := h.file.Close()

	if h.ownsSentinel {
		if rmErr := os.Remove(h.sentinelPath); rmErr != nil && !os.IsNotExist(rmErr) {
			if err == nil {
				err = rmErr
			}
		}
	}

	if err != nil {
		return err
	}
	return closeErr
}

// AcquireShared waits for any in-flight writer's sentinel to clear, then
// takes a shared advisory lock on the data file for reading.
//
// Returns errs.ErrCouldNotAcquireLock if the read timeout elapses first.
func (l *Lock) AcquireShared() (*Handle, error) {
	deadline := time.Now().Add(l.cfg.readTimeout)

	for {
		if !exists(l.sentinel) {
			f, err := os.Open(l.path)
			if err != nil {
				return nil, err
			}

			if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err == nil {
				return &Handle{file: f}, nil
			}
			f.Close()
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: read lock on %s", errs.ErrCouldNotAcquireLock, l.path)
		}
		time.Sleep(pollInterval)
	}
}

// AcquireExclusive claims the sentinel file (waiting if another writer
// already owns it), then takes an exclusive advisory lock on the data file
// for writing.
//
// Returns errs.ErrCouldNotAcquireLock if the write timeout elapses first; in
// that case, if this call created the sentinel, it removes it before
// returning so it doesn't block other writers indefinitely.
func (l *Lock) AcquireExclusive() (*Handle, error) {
	deadline := time.Now().Add(l.cfg.writeTimeout)
	ownsSentinel := false

	for {
		if !exists(l.sentinel) {
			if err := l.claimSentinel(); err == nil {
				ownsSentinel = true
			}
		}

		if ownsSentinel {
			f, err := openForWrite(l.path)
			if err != nil {
				if ownsSentinel {
					os.Remove(l.sentinel)
				}
				return nil, err
			}

			if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err == nil {
				return &Handle{file: f, sentinelPath: l.sentinel, ownsSentinel: true}, nil
			}
			f.Close()
		}

		if time.Now().After(deadline) {
			if ownsSentinel {
				os.Remove(l.sentinel)
			}
			return nil, fmt.Errorf("%w: write lock on %s", errs.ErrCouldNotAcquireLock, l.path)
		}
		time.Sleep(pollInterval)
	}
}

func (l *Lock) claimSentinel() error {
	f, err := os.OpenFile(l.sentinel, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(l.ownerToken)
	return err
}

func openForWrite(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
