// Package ledger tracks the OS handles a debug session owns and closes each
// of them exactly once.
package ledger

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/vburojevic/dynaspy/internal/domain"
)

var (
	// ErrAlreadyReleased is returned when a tracked handle is released twice
	ErrAlreadyReleased = errors.New("handle already released")
	// ErrLedgerDrained is returned when ReleaseAllRemaining runs more than once
	ErrLedgerDrained = errors.New("ledger already drained")
	// ErrForeignHandle is returned when a tracked handle belongs to another ledger
	ErrForeignHandle = errors.New("handle not owned by this ledger")
)

// CloseFunc closes an OS handle
type CloseFunc func(domain.Handle) error

// Tracked is a handle owned by the ledger until it is released.
// After release the handle value is cleared and can no longer be read.
type Tracked struct {
	ledger   *Ledger
	handle   domain.Handle
	kind     domain.Kind
	order    uint64
	released bool
}

// Handle returns the OS handle, or ErrAlreadyReleased after release
func (t *Tracked) Handle() (domain.Handle, error) {
	if t == nil || t.released {
		return domain.InvalidHandle, ErrAlreadyReleased
	}
	return t.handle, nil
}

// Kind returns the notification kind the handle was acquired from
func (t *Tracked) Kind() domain.Kind { return t.kind }

// Order returns the 1-based acquisition order
func (t *Tracked) Order() uint64 { return t.order }

// Released reports whether the handle has been closed
func (t *Tracked) Released() bool { return t.released }

// Stats counts ledger activity
type Stats struct {
	Adopted  int
	Released int
	Open     int
}

// Ledger owns handles between adoption and release. It is used from a single
// goroutine and does no locking.
type Ledger struct {
	closeFn CloseFunc
	log     *zap.Logger
	next    uint64
	open    map[uint64]*Tracked
	stats   Stats
	drained bool
}

// New creates a ledger that closes handles with closeFn
func New(closeFn CloseFunc, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		closeFn: closeFn,
		log:     log,
		open:    make(map[uint64]*Tracked),
	}
}

// Adopt takes ownership of h. Adopting after the ledger has been drained is a
// programming error.
func (l *Ledger) Adopt(h domain.Handle, kind domain.Kind) *Tracked {
	if l.drained {
		panic("ledger: adopt after ReleaseAllRemaining")
	}
	l.next++
	t := &Tracked{
		ledger: l,
		handle: h,
		kind:   kind,
		order:  l.next,
	}
	l.open[t.order] = t
	l.stats.Adopted++
	l.log.Debug("adopted handle",
		zap.Uint64("order", t.order),
		zap.Stringer("kind", kind),
		zap.Uintptr("handle", uintptr(h)),
	)
	return t
}

// Release closes the handle and invalidates t. The handle is considered
// released even when the OS close fails; it is never closed again.
func (l *Ledger) Release(t *Tracked) error {
	if t == nil || t.released {
		return ErrAlreadyReleased
	}
	if t.ledger != l {
		return ErrForeignHandle
	}
	h := t.handle
	t.handle = domain.InvalidHandle
	t.released = true
	delete(l.open, t.order)
	l.stats.Released++

	if err := l.closeFn(h); err != nil {
		l.log.Warn("close handle failed",
			zap.Uint64("order", t.order),
			zap.Stringer("kind", t.kind),
			zap.Error(err),
		)
		return fmt.Errorf("close %s handle #%d: %w", t.kind, t.order, err)
	}
	return nil
}

// ReleaseAllRemaining closes every handle still open, oldest first. It runs
// once per ledger; close failures are joined and do not stop the drain.
func (l *Ledger) ReleaseAllRemaining() error {
	if l.drained {
		return ErrLedgerDrained
	}
	l.drained = true

	remaining := lo.Values(l.open)
	remaining = lo.Filter(remaining, func(t *Tracked, _ int) bool { return !t.released })
	slices.SortFunc(remaining, func(a, b *Tracked) int { return cmp.Compare(a.order, b.order) })

	var errs []error
	for _, t := range remaining {
		if err := l.Release(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns adoption and release counts
func (l *Ledger) Stats() Stats {
	s := l.stats
	s.Open = len(l.open)
	return s
}
