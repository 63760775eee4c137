package debugger

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/vburojevic/dynaspy/internal/domain"
)

// Handles returned by the fake process creation
const (
	procHandle   domain.Handle = 0xF0
	threadHandle domain.Handle = 0xF1
)

var errNoMoreEvents = errors.New("fake: no more notifications")

type continuation struct {
	pid      uint32
	tid      uint32
	decision domain.Decision
}

// fakePlatform replays a scripted notification sequence and records every
// call the session makes against the OS layer.
type fakePlatform struct {
	createErr error
	info      domain.ProcessInfo
	created   int

	events []domain.Notification
	next   int

	// continueErr fails the continuation for the event at this index
	continueErrAt int
	continueErr   error
	continued     []continuation

	paths    map[domain.Handle]string
	tooLong  map[domain.Handle]bool
	queried  []domain.Handle
	closed   map[domain.Handle]int
	closeErr map[domain.Handle]error

	// ops is the ordered call log: wait, continue, close:<h>
	ops []string
}

func newFakePlatform(pid uint32, events ...domain.Notification) *fakePlatform {
	return &fakePlatform{
		info:          domain.ProcessInfo{PID: pid, Process: procHandle, Thread: threadHandle},
		events:        events,
		continueErrAt: -1,
		paths:         map[domain.Handle]string{},
		tooLong:       map[domain.Handle]bool{},
		closed:        map[domain.Handle]int{},
		closeErr:      map[domain.Handle]error{},
	}
}

func (f *fakePlatform) CreateDebuggee(program string, args []string) (domain.ProcessInfo, error) {
	f.created++
	if f.createErr != nil {
		return domain.ProcessInfo{}, f.createErr
	}
	return f.info, nil
}

func (f *fakePlatform) WaitForNotification() (domain.Notification, error) {
	f.ops = append(f.ops, "wait")
	if f.next >= len(f.events) {
		return domain.Notification{}, errNoMoreEvents
	}
	n := f.events[f.next]
	f.next++
	return n, nil
}

func (f *fakePlatform) Continue(pid, tid uint32, decision domain.Decision) error {
	f.ops = append(f.ops, "continue")
	if f.next-1 == f.continueErrAt {
		return f.continueErr
	}
	f.continued = append(f.continued, continuation{pid: pid, tid: tid, decision: decision})
	return nil
}

func (f *fakePlatform) FinalPathName(h domain.Handle, buf []uint16, flags uint32) (uint32, error) {
	f.queried = append(f.queried, h)
	if f.tooLong[h] {
		return uint32(len(buf) + 1), nil
	}
	p, ok := f.paths[h]
	if !ok {
		return 0, errors.New("fake: path not available")
	}
	u := utf16.Encode([]rune(p))
	if len(u) >= len(buf) {
		return uint32(len(u) + 1), nil
	}
	copy(buf, u)
	return uint32(len(u)), nil
}

func (f *fakePlatform) CloseHandle(h domain.Handle) error {
	f.ops = append(f.ops, fmt.Sprintf("close:%#x", uintptr(h)))
	f.closed[h]++
	return f.closeErr[h]
}

// closedExactlyOnce reports handles that were closed zero or several times
func (f *fakePlatform) closedExactlyOnce(handles ...domain.Handle) []domain.Handle {
	var bad []domain.Handle
	for _, h := range handles {
		if f.closed[h] != 1 {
			bad = append(bad, h)
		}
	}
	return bad
}
